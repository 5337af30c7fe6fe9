package plist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	howett "howett.net/plist"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>name</key>
	<string>Cake</string>
	<key>quantity</key>
	<integer>2</integer>
	<key>ratio</key>
	<real>2.5</real>
	<key>items</key>
	<array>
		<true/>
		<data>aGVsbG8=</data>
	</array>
</dict>
</plist>
`

func TestParse_XML(t *testing.T) {
	v, err := Parse([]byte(sampleXML))
	require.NoError(t, err)

	d, err := AsDictionary(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"items", "name", "quantity", "ratio"}, d.Keys())

	name, err := d.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "Cake", name)

	q, err := d.GetNumber("quantity")
	require.NoError(t, err)
	assert.Equal(t, 2.0, q)

	r, err := d.GetReal("ratio")
	require.NoError(t, err)
	assert.Equal(t, 2.5, r)

	items, err := d.GetArray("items")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, Boolean(true), items[0])
	assert.Equal(t, Data("hello"), items[1])
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.plist")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o644))

	v, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, KindDictionary, v.Kind())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.plist"))
	assert.Error(t, err)
}

func TestParse_Garbage(t *testing.T) {
	_, err := Parse([]byte("<plist><dict><key>a</key></plist>"))
	assert.Error(t, err)
}

func TestFromNative_Scalars(t *testing.T) {
	when := time.Unix(1700000000, 500000000).UTC()
	v, err := FromNative(map[string]any{
		"uid":  howett.UID(3),
		"neg":  int64(-2),
		"date": when,
		"nil":  nil,
		"f32":  float32(1.5),
	})
	require.NoError(t, err)

	d, err := AsDictionary(v)
	require.NoError(t, err)

	uid, _ := d.Get("uid")
	assert.Equal(t, UID(3), uid)
	neg, _ := d.Get("neg")
	assert.Equal(t, SignedInteger(-2), neg)
	date, _ := d.Get("date")
	assert.Equal(t, Date(1700000000.5), date)
	null, _ := d.Get("nil")
	assert.Equal(t, Null{}, null)
	f, _ := d.Get("f32")
	assert.Equal(t, Real(1.5), f)
}

func TestFromNative_Unsupported(t *testing.T) {
	_, err := FromNative([]any{struct{}{}})
	assert.ErrorContains(t, err, "element 0")
}
