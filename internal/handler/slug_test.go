package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Pizzaria do João", "pizzaria-do-joao"},
		{"Açaí & Cia", "acai-cia"},
		{"  Burger House  ", "burger-house"},
		{"Café São José", "cafe-sao-jose"},
		{"Lanches 24h", "lanches-24h"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slugify(tc.name), "name=%q", tc.name)
	}
}
