package validate

import (
	"math"
	"strings"
	"testing"

	"commonyouth/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGroup() store.Group {
	return store.Group{
		Name:        "Phuket Youth",
		Province:    "ภูเก็ต",
		Description: "กลุ่มเยาวชนรักษ์ทะเลอันดามัน",
		Issues:      []string{"ความยุติธรรมทางสภาพอากาศ"},
		Contact:     "hi@phuketyouth.org",
		Coordinates: store.Coordinates{Lat: 7.88, Lng: 98.39},
		ImageURL:    "https://example.org/cover.jpg",
	}
}

func TestValidGroupPasses(t *testing.T) {
	errs := Group(validGroup())
	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

func TestMissingFields(t *testing.T) {
	errs := Group(store.Group{})
	assert.Equal(t, MsgNameRequired, errs["name"])
	assert.Equal(t, MsgProvinceRequired, errs["province"])
	assert.Equal(t, MsgDescriptionRequired, errs["description"])
	assert.Equal(t, MsgIssuesRequired, errs["issues"])
	assert.Equal(t, MsgContactRequired, errs["contact"])
	_, hasCoords := errs["coordinates"]
	assert.False(t, hasCoords, "zero coordinates are in range")
	require.Error(t, errs.Err())
	assert.True(t, strings.HasPrefix(errs.Error(), "validation failed: contact: "))
}

func TestFieldRules(t *testing.T) {
	g := validGroup()
	g.Description = "สั้นไป"
	g.Contact = "not-an-email"
	g.Coordinates = store.Coordinates{Lat: 91, Lng: 0}
	g.ImageURL = "javascript:alert(1)"
	errs := Group(g)
	assert.Equal(t, MsgDescriptionShort, errs["description"])
	assert.Equal(t, MsgContactInvalid, errs["contact"])
	assert.Equal(t, MsgCoordinatesInvalid, errs["coordinates"])
	assert.Equal(t, MsgImageURLInvalid, errs["imageUrl"])

	g = validGroup()
	g.Description = "ก ข ค ง จ" // nine runes
	assert.Equal(t, MsgDescriptionShort, Group(g)["description"])
	g.Description = "ก ข ค ง จฉ"
	assert.Empty(t, Group(g))
}

func TestEmailAndURL(t *testing.T) {
	assert.True(t, Email("a@b.co"))
	assert.False(t, Email("a b@c.d"))
	assert.False(t, Email("a@b"))
	assert.False(t, Email(strings.Repeat("a", 250)+"@b.co"))
	assert.True(t, URL("http://x.org/a.png"))
	assert.False(t, URL("ftp://x.org/a.png"))
	assert.False(t, URL("/relative.png"))
	assert.False(t, Coordinates(math.NaN(), 0))
	assert.True(t, Coordinates(-90, 180))
}

func TestClean(t *testing.T) {
	g := Clean(store.Group{Name: "  n ", Issues: []string{" สิทธิดิจิทัล", "", "สิทธิดิจิทัล", "ปฏิรูปการศึกษา"}})
	assert.Equal(t, "n", g.Name)
	assert.Equal(t, []string{"สิทธิดิจิทัล", "ปฏิรูปการศึกษา"}, g.Issues)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "etcpasswd", SanitizeFileName("../../etc/passwd"))
	assert.Equal(t, "_.env", SanitizeFileName(".env"))
	assert.Equal(t, "my_photo.png", SanitizeFileName("my@photo.png"))
	assert.Equal(t, "unnamed_file", SanitizeFileName(""))
	assert.Len(t, SanitizeFileName(strings.Repeat("a", 300)), 255)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "เชียง...", TruncateText("เชียงใหม่", 5, true))
	assert.Equal(t, "เชียง", TruncateText("เชียงใหม่", 5, false))
	assert.Equal(t, "short", TruncateText("short", 10, true))
}
