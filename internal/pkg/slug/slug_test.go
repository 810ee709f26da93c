package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Hello World":                      "hello-world",
		"  Automatisation des devis  ":     "automatisation-des-devis",
		"Design & UX : l'été":              "design-ux-l-ete",
		"Développement — Go 1.24":          "developpement-go-1-24",
		"Ça marche!!!":                     "ca-marche",
		"---":                              "",
		"already-a-slug":                   "already-a-slug",
		"Intégration IA & automatisations": "integration-ia-automatisations",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), "input %q", in)
	}
}

func TestMake_Truncates(t *testing.T) {
	out := Make(strings.Repeat("ab ", 100))
	assert.LessOrEqual(t, len(out), maxLength)
	assert.False(t, strings.HasSuffix(out, "-"))
}
