package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Rust Fans", "rust-fans"},
		{"  Rust   Fans!! ", "rust-fans"},
		{"Go/Gophers (Beijing)", "go-gophers-beijing"},
		{"hello", "hello"},
		{"UPPER", "upper"},
		{"42", "42"},
		{"---", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.name), "Slugify(%q)", c.name)
	}
}
