package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
	"github.com/jhoicas/gst-billing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gst-billing-api/pkg/config"
	"github.com/jhoicas/gst-billing-api/pkg/logger"
	"github.com/jhoicas/gst-billing-api/pkg/money"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "gstctl",
		Usage: "GST billing maintenance and calculation tools",
		Commands: []*cli.Command{
			migrateCommand(),
			wordsCommand(),
			calcCommand(),
			validateCommand(),
			numberCommand(),
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the embedded database migrations",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: c.App.ErrWriter})

			ctx, cancel := context.WithTimeout(c.Context, 2*time.Minute)
			defer cancel()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			version, err := postgres.RunMigrations(pool)
			if err != nil {
				return err
			}
			log.Info().Uint("version", version).Msg("migrations applied")
			return nil
		},
	}
}

func wordsCommand() *cli.Command {
	return &cli.Command{
		Name:      "words",
		Usage:     "print an amount in words (Indian numbering)",
		ArgsUsage: "<amount>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("usage: gstctl words <amount>")
			}
			amount, err := decimal.NewFromString(c.Args().First())
			if err != nil {
				return fmt.Errorf("invalid amount %q", c.Args().First())
			}
			fmt.Fprintln(c.App.Writer, gst.NumberToWords(amount))
			return nil
		},
	}
}

func calcCommand() *cli.Command {
	return &cli.Command{
		Name:      "calc",
		Usage:     "compute GST for line items given as qty:rate:gst",
		ArgsUsage: "qty:rate:gst...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "inter", Usage: "inter-state supply (IGST)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("usage: gstctl calc [--inter] qty:rate:gst...")
			}
			items := make([]gst.LineItem, 0, c.NArg())
			for _, arg := range c.Args().Slice() {
				item, err := parseLineItem(arg)
				if err != nil {
					return err
				}
				items = append(items, item)
			}
			totals := gst.CalculateInvoiceTotals(items, c.Bool("inter"))

			w := c.App.Writer
			for i, r := range totals.Items {
				fmt.Fprintf(w, "%d. %s x %s @ %s%%  amount %s  tax %s  total %s\n",
					i+1, r.Quantity, money.FormatINR(r.Rate), r.GSTRate,
					money.FormatINR(r.Amount), money.FormatINR(r.TaxAmount()), money.FormatINR(r.Total))
			}
			fmt.Fprintf(w, "Subtotal     %s\n", money.FormatINR(totals.Subtotal))
			if c.Bool("inter") {
				fmt.Fprintf(w, "IGST         %s\n", money.FormatINR(totals.TotalIGST))
			} else {
				fmt.Fprintf(w, "CGST         %s\n", money.FormatINR(totals.TotalCGST))
				fmt.Fprintf(w, "SGST         %s\n", money.FormatINR(totals.TotalSGST))
			}
			fmt.Fprintf(w, "Grand total  %s\n", money.FormatINR(totals.GrandTotal))
			fmt.Fprintln(w, gst.NumberToWords(totals.GrandTotal))
			return nil
		},
	}
}

func parseLineItem(arg string) (gst.LineItem, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 3 {
		return gst.LineItem{}, fmt.Errorf("item %q: expected qty:rate:gst", arg)
	}
	var vals [3]decimal.Decimal
	for i, p := range parts {
		d, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			return gst.LineItem{}, fmt.Errorf("item %q: %q is not a number", arg, p)
		}
		if d.IsNegative() {
			return gst.LineItem{}, fmt.Errorf("item %q: negative values are not allowed", arg)
		}
		vals[i] = d
	}
	return gst.LineItem{Quantity: vals[0], Rate: vals[1], GSTRate: vals[2]}, nil
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check GSTIN, PAN and phone formats",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "gstin"},
			&cli.StringFlag{Name: "pan"},
			&cli.StringFlag{Name: "phone"},
		},
		Action: func(c *cli.Context) error {
			w := c.App.Writer
			checked, failed := 0, 0
			report := func(label, value string, ok bool, extra string) {
				checked++
				status := "valid"
				if !ok {
					status = "invalid"
					failed++
				}
				fmt.Fprintf(w, "%-6s %s: %s%s\n", label, value, status, extra)
			}
			if v := c.String("gstin"); v != "" {
				ok := gst.ValidateGSTNumber(v)
				extra := ""
				if state, found := gst.StateFromGSTIN(v); ok && found {
					extra = " (" + state + ")"
				}
				report("GSTIN", gst.NormalizeTaxID(v), ok, extra)
			}
			if v := c.String("pan"); v != "" {
				report("PAN", gst.NormalizeTaxID(v), gst.ValidatePAN(v), "")
			}
			if v := c.String("phone"); v != "" {
				report("Phone", v, gst.ValidatePhone(v), "")
			}
			if checked == 0 {
				return errors.New("nothing to validate: pass --gstin, --pan or --phone")
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d values invalid", failed, checked)
			}
			return nil
		},
	}
}

func numberCommand() *cli.Command {
	return &cli.Command{
		Name:  "number",
		Usage: "print the invoice number that follows --count existing invoices",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "prefix", Value: gst.DefaultInvoicePrefix},
			&cli.IntFlag{Name: "count", Usage: "invoices the user already has"},
			&cli.StringFlag{Name: "date", Usage: "issue date YYYY-MM-DD (default today)"},
		},
		Action: func(c *cli.Context) error {
			at := time.Now()
			if raw := c.String("date"); raw != "" {
				parsed, err := time.Parse("2006-01-02", raw)
				if err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", raw)
				}
				at = parsed
			}
			if c.Int("count") < 0 {
				return errors.New("--count must not be negative")
			}
			fmt.Fprintln(c.App.Writer, gst.FormatInvoiceNumber(c.String("prefix"), at, c.Int("count")+1))
			return nil
		},
	}
}
