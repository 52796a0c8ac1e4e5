package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/sanctionlistflow/internal/blob"
	"github.com/Lllllllleong/sanctionlistflow/internal/config"
	"github.com/Lllllllleong/sanctionlistflow/internal/fingerprint"
	"github.com/Lllllllleong/sanctionlistflow/internal/kdn"
	"github.com/Lllllllleong/sanctionlistflow/internal/pdfpage"
)

const (
	kdnListURL = "https://www.moha.gov.my/index.php/en/maklumat-perkhidmatan"
	kdnPDFURL  = "https://www.moha.gov.my/images/SENARAI_KDN_OGOS_2026.pdf"
)

const kdnListingHTML = `<html><body>
<a href="/images/SENARAI_KDN_OGOS_2026.pdf.xml">machine readable</a>
<a href="/images/SENARAI_KDN_OGOS_2026.pdf">Senarai KDN</a>
</body></html>`

func kdnTestConfig() config.KDNConfig {
	return config.KDNConfig{
		ListURL:         kdnListURL,
		BaseURL:         "https://www.moha.gov.my",
		IndividualsKey:  "kdn/individuals.json",
		GroupsKey:       "kdn/groups.json",
		StateKey:        "kdn/last-fingerprint.txt",
		GroupsFirstPage: 1,
		GroupsLastPage:  1,
	}
}

func kdnTestFetcher() *fakeFetcher {
	return &fakeFetcher{responses: map[string][]byte{
		kdnListURL: []byte(kdnListingHTML),
		kdnPDFURL:  []byte("%PDF-1.7 stand-in"),
	}}
}

// kdnTestPages builds a two-page stand-in for the ministry list: section A's
// table on page one, the section B banner and its table on page two.
func kdnTestPages() []pdfpage.Page {
	return []pdfpage.Page{
		kdnTablePage(13,
			map[int]string{0: "(1)", 2: "(3)", 12: "(13)"},
			map[int]string{0: "1.", 1: "KDN/A/2019/1", 2: "ALI BIN ABU", 5: "3.7.61", 12: "17.9.2014"}),
		kdnBanner(kdnTablePage(7,
			map[int]string{0: "(1)", 3: "(4)", 6: "(7)"},
			map[int]string{0: "1.", 1: "KDN/B/2014/1", 2: "ABU SAYYAF", 6: "25.9.2014"}),
			"B.", "GROUP"),
	}
}

func kdnTablePage(columns int, markers, cells map[int]string) pdfpage.Page {
	xs := make([]float64, columns+1)
	for i := range xs {
		xs[i] = 40 + 40*float64(i)
	}
	ys := []float64{720, 690, 640}
	var page pdfpage.Page
	for _, x := range xs {
		page.Rules = append(page.Rules, pdfpage.Rule{X0: x, Y0: ys[len(ys)-1], X1: x, Y1: ys[0]})
	}
	for _, y := range ys {
		page.Rules = append(page.Rules, pdfpage.Rule{X0: xs[0], Y0: y, X1: xs[len(xs)-1], Y1: y})
	}
	for col := 0; col < columns; col++ {
		if m, ok := markers[col]; ok {
			page.Words = append(page.Words, kdnWord(m, 42+40*float64(col), 706))
		}
		if v, ok := cells[col]; ok {
			for i, part := range strings.Fields(v) {
				page.Words = append(page.Words, kdnWord(part, 42+40*float64(col), 676-12*float64(i)))
			}
		}
	}
	return page
}

func kdnWord(text string, x, y float64) pdfpage.Word {
	return pdfpage.Word{Text: text, X: x, Y: y, W: float64(len(text)) * 4, H: 8}
}

func kdnBanner(page pdfpage.Page, words ...string) pdfpage.Page {
	for i, w := range words {
		page.Words = append(page.Words, kdnWord(w, 60+30*float64(i), 760))
	}
	return page
}

func newTestKDN(cfg config.KDNConfig, fetcher Fetcher, blobs blob.Store, state fingerprint.Store) *KDNFunction {
	f := NewKDN(cfg, fetcher, blobs, state, nil)
	f.readPages = func(data []byte) ([]pdfpage.Page, error) { return kdnTestPages(), nil }
	f.now = func() time.Time { return time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC) }
	return f
}

func TestKDNProcessPublishesChangedList(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewLocalStore(t.TempDir())
	state := fingerprint.NewBlobStore(blobs)
	fetcher := kdnTestFetcher()
	cfg := kdnTestConfig()
	f := newTestKDN(cfg, fetcher, blobs, state)

	report, err := f.Process(ctx, "run-1")
	require.NoError(t, err)

	assert.True(t, report.Changed)
	assert.Equal(t, "kdn", report.Source)
	assert.Equal(t, fingerprint.Digest([]byte("%PDF-1.7 stand-in")), report.Fingerprint)
	assert.Equal(t, map[string]int{"individuals": 1, "groups": 1}, report.RecordCounts)
	assert.Equal(t, []string{cfg.IndividualsKey, cfg.GroupsKey}, report.OutputKeys)
	assert.Equal(t, []string{kdnListURL, kdnPDFURL}, fetcher.calls)

	snapshot, err := blobs.Get(ctx, cfg.IndividualsKey)
	require.NoError(t, err)
	var individuals []kdn.Individual
	require.NoError(t, json.Unmarshal(snapshot, &individuals))
	require.Len(t, individuals, 1)
	assert.Equal(t, 1, individuals[0].ID)
	assert.Equal(t, "ALI BIN ABU", individuals[0].Name)
	assert.Equal(t, "3 July 1961", individuals[0].DateOfBirth)
	assert.Equal(t, "17 September 2014", individuals[0].ListedDate)

	snapshot, err = blobs.Get(ctx, cfg.GroupsKey)
	require.NoError(t, err)
	var groups []kdn.Group
	require.NoError(t, json.Unmarshal(snapshot, &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "ABU SAYYAF", groups[0].Name)
	assert.Equal(t, "25 September 2014", groups[0].ListedDate)

	stored, exists, err := state.Load(ctx, cfg.StateKey)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, report.Fingerprint, stored)
}

func TestKDNProcessSkipsUnchangedList(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewLocalStore(t.TempDir())
	state := fingerprint.NewBlobStore(blobs)
	f := newTestKDN(kdnTestConfig(), kdnTestFetcher(), blobs, state)

	first, err := f.Process(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, first.Changed)

	second, err := f.Process(ctx, "run-2")
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestKDNProcessResolvesLinkAgainstMinistryHost(t *testing.T) {
	ctx := context.Background()
	blobs := blob.NewLocalStore(t.TempDir())
	fetcher := kdnTestFetcher()
	f := newTestKDN(kdnTestConfig(), fetcher, blobs, fingerprint.NewBlobStore(blobs))

	_, err := f.Process(ctx, "run-1")
	require.NoError(t, err)
	// The listing page lives under index.php but the PDF link resolves
	// against the site root, and the .pdf.xml sibling is passed over.
	require.Len(t, fetcher.calls, 2)
	assert.Equal(t, kdnPDFURL, fetcher.calls[1])
}

func TestKDNProcessKeepsFingerprintWhenPublishFails(t *testing.T) {
	ctx := context.Background()
	cfg := kdnTestConfig()
	local := blob.NewLocalStore(t.TempDir())
	blobs := &failingStore{Store: local, failKey: cfg.GroupsKey}
	state := fingerprint.NewBlobStore(local)
	f := newTestKDN(cfg, kdnTestFetcher(), blobs, state)

	report, err := f.Process(ctx, "run-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to publish the groups snapshot")
	assert.False(t, report.Changed)

	// The individuals snapshot landed but the fingerprint did not advance,
	// so the next run republishes both.
	_, err = local.Get(ctx, cfg.IndividualsKey)
	require.NoError(t, err)
	_, exists, err := state.Load(ctx, cfg.StateKey)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestKDNProcessPublishesEmptySnapshotsAsArrays(t *testing.T) {
	ctx := context.Background()
	cfg := kdnTestConfig()
	blobs := blob.NewLocalStore(t.TempDir())
	f := newTestKDN(cfg, kdnTestFetcher(), blobs, fingerprint.NewBlobStore(blobs))
	f.readPages = func(data []byte) ([]pdfpage.Page, error) { return nil, nil }

	report, err := f.Process(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, report.Changed)
	assert.Equal(t, map[string]int{"individuals": 0, "groups": 0}, report.RecordCounts)

	for _, key := range []string{cfg.IndividualsKey, cfg.GroupsKey} {
		snapshot, err := blobs.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "[]", strings.TrimSpace(string(snapshot)))
	}
}

func TestKDNProcessFailsWhenPDFUnreadable(t *testing.T) {
	ctx := context.Background()
	cfg := kdnTestConfig()
	blobs := blob.NewLocalStore(t.TempDir())
	state := fingerprint.NewBlobStore(blobs)
	f := newTestKDN(cfg, kdnTestFetcher(), blobs, state)
	f.readPages = func(data []byte) ([]pdfpage.Page, error) {
		return nil, assert.AnError
	}

	_, err := f.Process(ctx, "run-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to read the PDF")

	_, exists, err := state.Load(ctx, cfg.StateKey)
	require.NoError(t, err)
	assert.False(t, exists)
}
