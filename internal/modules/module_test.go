package modules

import (
	"testing"
	"time"

	"github.com/renamecraft/renamectl/internal/fileref"
	"github.com/stretchr/testify/assert"
)

func TestCounter_Monotonicity(t *testing.T) {
	cfg := Config{Kind: KindCounter, Start: 1, Step: 1, Padding: 3, Scope: ScopeGlobal}
	for i := 0; i < 5; i++ {
		got := Apply(cfg, &fileref.FileRef{}, i, nil, false, false)
		want := []string{"001", "002", "003", "004", "005"}[i]
		assert.Equal(t, want, got)
	}
}

func TestCounter_Padding(t *testing.T) {
	cfg := Config{Kind: KindCounter, Start: 1, Step: 1, Padding: 2}
	assert.Equal(t, "01", Apply(cfg, &fileref.FileRef{}, 0, nil, false, false))
	assert.Equal(t, "10", Apply(cfg, &fileref.FileRef{}, 9, nil, false, false))
}

func TestSpecifiedText_ReservedName(t *testing.T) {
	cfg := Config{Kind: KindSpecifiedText, Text: "CON"}
	got := Apply(cfg, &fileref.FileRef{}, 0, nil, false, false)
	assert.Equal(t, "__VALIDATION_ERROR__", got)
}

func TestSpecifiedText_InvalidChar(t *testing.T) {
	for _, c := range `<>:"/\|?*` {
		cfg := Config{Kind: KindSpecifiedText, Text: "a" + string(c) + "b"}
		got := Apply(cfg, &fileref.FileRef{}, 0, nil, false, false)
		assert.Equal(t, "__VALIDATION_ERROR__", got)
	}
}

func TestSpecifiedText_Empty(t *testing.T) {
	cfg := Config{Kind: KindSpecifiedText, Text: ""}
	assert.False(t, cfg.IsEffective())
	assert.Equal(t, "", Apply(cfg, &fileref.FileRef{}, 0, nil, false, false))
}

func TestOriginalName(t *testing.T) {
	f := &fileref.FileRef{Filename: "report.txt"}
	cfg := Config{Kind: KindOriginalName}
	assert.Equal(t, "report", Apply(cfg, f, 0, nil, false, false))
}

func TestTextRemoval_Anywhere(t *testing.T) {
	f := &fileref.FileRef{Filename: "holiday_trip_holiday.jpg"}
	cfg := Config{Kind: KindTextRemoval, TextToRemove: "holiday", Position: PositionAnywhere}
	assert.Equal(t, "_trip_.jpg", Apply(cfg, f, 0, nil, false, false)+".jpg")
}

func TestTextRemoval_Start(t *testing.T) {
	f := &fileref.FileRef{Filename: "IMG_1234.jpg"}
	cfg := Config{Kind: KindTextRemoval, TextToRemove: "IMG_", Position: PositionStart}
	assert.Equal(t, "1234", Apply(cfg, f, 0, nil, false, false))
}

func TestMetadata_HashFallback(t *testing.T) {
	f := &fileref.FileRef{Filename: "a.jpg"}
	cfg := Config{Kind: KindMetadata, Field: "hash_crc32", Category: CategoryHash}
	got := Apply(cfg, f, 0, nil, false, false)
	assert.Equal(t, "a", got)
}

func TestMetadata_Keys_Fallback(t *testing.T) {
	f := &fileref.FileRef{Filename: "a.jpg"}
	cfg := Config{Kind: KindMetadata, Field: "camera", Category: CategoryMetadataKeys}
	got := Apply(cfg, f, 0, f, false, false)
	assert.Equal(t, "a", got)
}

func TestMetadata_Keys_Cleaned(t *testing.T) {
	f := &fileref.FileRef{Filename: "a.jpg", Metadata: map[string]any{"camera": "Sony A7R: IV"}}
	cfg := Config{Kind: KindMetadata, Field: "camera", Category: CategoryMetadataKeys}
	got := Apply(cfg, f, 0, f, false, true)
	assert.Equal(t, "Sony_A7R_IV", got)
}

func TestMetadata_FileDates(t *testing.T) {
	ts := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	f := &fileref.FileRef{ModifiedTime: ts}
	cfg := Config{Kind: KindMetadata, Field: "last_modified_iso", Category: CategoryFileDates}
	got := Apply(cfg, f, 0, nil, false, false)
	assert.Equal(t, "2024-03-05", got)
	assert.NotContains(t, got, ":")
	assert.NotContains(t, got, "/")
}
