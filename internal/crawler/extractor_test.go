package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullEntry = `
<li class="reusable-search__result-container">
  <a data-test-app-aware-link href="https://www.linkedin.com/in/jane-doe?miniProfileUrn=urn%3Ali%3Afs">
    <span aria-hidden="true">Jane Doe</span>
  </a>
  <div class="entity-result__primary-subtitle">Software Engineer at Initech</div>
  <div class="entity-result__secondary-subtitle">Buenos Aires, Argentina</div>
  <p class="entity-result__summary">Building distributed systems.</p>
  <span class="entity-result__simple-insight-text">500+ connections</span>
</li>`

const sparseEntry = `
<li class="reusable-search__result-container">
  <a href="https://www.linkedin.com/in/ghost"><span aria-hidden="true">Ghost Profile</span></a>
</li>`

func TestExtract_FullEntry(t *testing.T) {
	rec, err := NewExtractor().Extract(fullEntry)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "Software Engineer at Initech", rec.Title)
	assert.Equal(t, "Initech", rec.Company)
	assert.Equal(t, "Buenos Aires, Argentina", rec.Location)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", rec.ProfileURL)
	assert.Equal(t, "Building distributed systems.", rec.About)
	assert.Equal(t, "500+ connections", rec.Connections)
}

func TestExtract_MissingFieldsAreEmptyStrings(t *testing.T) {
	rec, err := NewExtractor().Extract(sparseEntry)

	require.NoError(t, err)
	assert.Equal(t, "Ghost Profile", rec.Name)
	assert.Equal(t, "https://www.linkedin.com/in/ghost", rec.ProfileURL)
	assert.Empty(t, rec.Title)
	assert.Empty(t, rec.Company)
	assert.Empty(t, rec.Location)
	assert.Empty(t, rec.About)
	assert.Empty(t, rec.Connections)
}

func TestExtract_UnrecognizableEntry(t *testing.T) {
	_, err := NewExtractor().Extract(`<div class="ad-banner">sponsored</div>`)

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestExtract_FallbackSelectors(t *testing.T) {
	entry := `
<li>
  <a href="https://www.linkedin.com/in/john-smith"><span aria-hidden="true">John Smith</span></a>
  <div class="t-14 t-black t-normal">Platform Engineer at Globex</div>
  <p class="t-12 t-black--light">Kubernetes and Go.</p>
</li>`

	rec, err := NewExtractor().Extract(entry)

	require.NoError(t, err)
	assert.Equal(t, "John Smith", rec.Name)
	assert.Equal(t, "Platform Engineer at Globex", rec.Title)
	assert.Equal(t, "Globex", rec.Company)
	assert.Equal(t, "Kubernetes and Go.", rec.About)
}

func TestExtract_StripsTrackingParams(t *testing.T) {
	entry := `<li><a data-test-app-aware-link href="https://www.linkedin.com/in/x?trk=search"><span aria-hidden="true">X</span></a></li>`

	rec, err := NewExtractor().Extract(entry)

	require.NoError(t, err)
	assert.Equal(t, "https://www.linkedin.com/in/x", rec.ProfileURL)
}

func TestExtract_CleansPresencePrefix(t *testing.T) {
	entry := `<li><a href="https://www.linkedin.com/in/y"><span aria-hidden="true">Status is offline Yara Silva</span></a></li>`

	rec, err := NewExtractor().Extract(entry)

	require.NoError(t, err)
	assert.Equal(t, "Yara Silva", rec.Name)
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewExtractor()

	first, err := e.Extract(fullEntry)
	require.NoError(t, err)
	second, err := e.Extract(fullEntry)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtract_TitleEqualsLocationKeepsTitle(t *testing.T) {
	entry := `
<li>
  <a href="https://www.linkedin.com/in/z"><span aria-hidden="true">Zed</span></a>
  <div class="entity-result__primary-subtitle">Remote</div>
  <div class="entity-result__secondary-subtitle">remote</div>
</li>`

	rec, err := NewExtractor().Extract(entry)

	require.NoError(t, err)
	assert.Equal(t, "Remote", rec.Title)
	assert.Empty(t, rec.Location)
}
