// Command gstctl runs migrations and the GST helpers from the shell.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gstctl:", err)
		os.Exit(1)
	}
}
