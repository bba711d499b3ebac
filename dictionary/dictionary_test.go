package dictionary

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestLoad(t *testing.T) {
	is := is.New(t)
	d, err := Load(strings.NewReader("abcde EDCBA\naabbc\n"), 5)
	is.NoErr(err)
	is.Equal(d.Len(), 3)
	is.Equal(d.WordSize(), 5)
	is.Equal(d.Word(1), "edcba") // case-normalized, load order preserved

	id, err := d.IndexOf("aabbc")
	is.NoErr(err)
	is.Equal(id, 2)

	// Lookup normalizes case too.
	id, err = d.IndexOf("ABCDE")
	is.NoErr(err)
	is.Equal(id, 0)

	_, err = d.IndexOf("zzzzz")
	is.Equal(err, ErrNoSuchWord)
}

func TestDropCounts(t *testing.T) {
	is := is.New(t)
	d, err := New([]string{"abcde", "abc", "ab0de", "abcde", "toolong"}, 5)
	is.NoErr(err)
	is.Equal(d.Len(), 1)
	is.Equal(d.Dropped().WrongLength, 2)
	is.Equal(d.Dropped().InvalidChars, 1)
	is.Equal(d.Dropped().Duplicates, 1)
	is.Equal(d.Dropped().Total(), 4)
}

func TestEmpty(t *testing.T) {
	is := is.New(t)
	_, err := New([]string{"abc"}, 5)
	is.Equal(err, ErrEmpty)

	_, err = New([]string{"abcde"}, 0)
	is.Equal(err, ErrUnsizedWords)
}
