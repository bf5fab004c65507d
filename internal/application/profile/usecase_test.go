package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

type memProfiles struct {
	byUser map[string]*entity.BusinessProfile
}

func (m *memProfiles) GetByUserID(_ context.Context, userID string) (*entity.BusinessProfile, error) {
	p, ok := m.byUser[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) Upsert(_ context.Context, p *entity.BusinessProfile) error {
	cp := *p
	if old, ok := m.byUser[p.UserID]; ok {
		cp.LogoPath = old.LogoPath
	}
	m.byUser[p.UserID] = &cp
	return nil
}

func (m *memProfiles) UpdateLogo(_ context.Context, userID, path string) error {
	p, ok := m.byUser[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.LogoPath = path
	return nil
}

type memLogos struct {
	saved   map[string][]byte
	removed []string
	n       int
}

func (m *memLogos) Save(_ context.Context, userID, ext string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.n++
	path := fmt.Sprintf("%s/logo-%d%s", userID, m.n, ext)
	m.saved[path] = b
	return path, nil
}

func (m *memLogos) Remove(path string) error {
	if _, ok := m.saved[path]; !ok {
		return errors.New("missing")
	}
	delete(m.saved, path)
	m.removed = append(m.removed, path)
	return nil
}

func newProfileUC() (*ProfileUseCase, *memProfiles, *memLogos) {
	repo := &memProfiles{byUser: map[string]*entity.BusinessProfile{}}
	logos := &memLogos{saved: map[string][]byte{}}
	return NewProfileUseCase(repo, logos, 1024, "inv", zerolog.Nop()), repo, logos
}

func validRequest() dto.UpsertProfileRequest {
	return dto.UpsertProfileRequest{
		BusinessName: "Sharma Traders",
		GSTIN:        "29abcde1234f1z5",
		PAN:          "abcde1234f",
		State:        "Karnataka",
		Phone:        "9876543210",
	}
}

func TestGet_WithoutProfile(t *testing.T) {
	uc, _, _ := newProfileUC()
	_, err := uc.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrProfileRequired)
}

func TestUpsert_NormalizesAndDefaults(t *testing.T) {
	uc, repo, _ := newProfileUC()
	resp, err := uc.Upsert(context.Background(), "u1", validRequest())
	require.NoError(t, err)

	assert.Equal(t, "29ABCDE1234F1Z5", resp.GSTIN)
	assert.Equal(t, "ABCDE1234F", resp.PAN)
	assert.Equal(t, "29", resp.StateCode)
	assert.Equal(t, "INV", resp.InvoicePrefix)
	assert.Equal(t, "29ABCDE1234F1Z5", repo.byUser["u1"].GSTIN)

	again, err := uc.Upsert(context.Background(), "u1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, resp.ID, again.ID, "upsert keeps the same row")
}

func TestUpsert_StateFromGSTIN(t *testing.T) {
	uc, _, _ := newProfileUC()
	req := validRequest()
	req.State = ""
	resp, err := uc.Upsert(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, "Karnataka", resp.State)
}

func TestUpsert_Validation(t *testing.T) {
	uc, _, _ := newProfileUC()
	cases := map[string]func(*dto.UpsertProfileRequest){
		"business_name": func(r *dto.UpsertProfileRequest) { r.BusinessName = " " },
		"gstin":         func(r *dto.UpsertProfileRequest) { r.GSTIN = "29ABCDE1234F1Y5" },
		"pan":           func(r *dto.UpsertProfileRequest) { r.PAN = "ABCDE12345" },
		"phone":         func(r *dto.UpsertProfileRequest) { r.Phone = "12345" },
		"email":         func(r *dto.UpsertProfileRequest) { r.Email = "nope" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := uc.Upsert(context.Background(), "u1", req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}
}

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func TestUploadLogo_ReplacesPrevious(t *testing.T) {
	uc, repo, logos := newProfileUC()
	ctx := context.Background()
	_, err := uc.Upsert(ctx, "u1", validRequest())
	require.NoError(t, err)

	resp, err := uc.UploadLogo(ctx, "u1", "logo.PNG", int64(len(pngHeader)), bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, resp.HasLogo)
	first := repo.byUser["u1"].LogoPath
	assert.Equal(t, "u1/logo-1.png", first)
	assert.Equal(t, pngHeader, logos.saved[first], "sniffed bytes are written back")

	_, err = uc.UploadLogo(ctx, "u1", "logo.jpeg", int64(len(jpegHeader)), bytes.NewReader(jpegHeader))
	require.NoError(t, err)
	assert.Equal(t, "u1/logo-2.jpg", repo.byUser["u1"].LogoPath)
	assert.Equal(t, []string{first}, logos.removed)
}

func TestUploadLogo_Rejects(t *testing.T) {
	uc, _, _ := newProfileUC()
	ctx := context.Background()

	_, err := uc.UploadLogo(ctx, "u1", "logo.png", 3, bytes.NewReader([]byte{1, 2, 3}))
	assert.ErrorIs(t, err, domain.ErrProfileRequired)

	_, err = uc.UploadLogo(ctx, "u1", "logo.gif", 3, bytes.NewReader(nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UploadLogo(ctx, "u1", "logo.png", 4096, bytes.NewReader(nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUploadLogo_RejectsContentNotMatchingExtension(t *testing.T) {
	uc, repo, logos := newProfileUC()
	ctx := context.Background()
	_, err := uc.Upsert(ctx, "u1", validRequest())
	require.NoError(t, err)

	cases := map[string][]byte{
		"logo.png":  []byte("<html><body>not an image</body></html>"),
		"logo.jpg":  pngHeader,
		"empty.png": {},
	}
	for name, content := range cases {
		_, err := uc.UploadLogo(ctx, "u1", name, 10, bytes.NewReader(content))
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, name)
		assert.Equal(t, "logo", verr.Field)
	}
	assert.Empty(t, logos.saved)
	assert.Empty(t, repo.byUser["u1"].LogoPath)
}
