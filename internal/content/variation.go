package content

import (
	"fmt"

	"github.com/yungbote/bloom-backend/internal/domain/pregnancy"
	"github.com/yungbote/bloom-backend/internal/pkg/randx"
)

// Variation is the random art direction of one image request. Seed is passed
// through to the provider.
type Variation struct {
	Style   string `json:"style"`
	Palette string `json:"palette"`
	Scene   string `json:"scene"`
	Subject string `json:"subject,omitempty"`
	Seed    int32  `json:"seed"`
}

func (v Variation) Describe() string {
	return fmt.Sprintf("Style: %s. Colour palette: %s. Scene: %s.", v.Style, v.Palette, v.Scene)
}

type variationPicker struct {
	cat *Catalog
	rnd *randx.Source
}

func (p variationPicker) pick(week int) Variation {
	v := Variation{
		Style:   randx.Pick(p.rnd, p.cat.Variation.Styles),
		Palette: randx.Pick(p.rnd, p.cat.Variation.Palettes),
		Scene:   randx.Pick(p.rnd, p.cat.Variation.Scenes),
		Seed:    p.rnd.Int31(),
	}
	if p.cat.Stages != nil {
		v.Subject = p.cat.Stages[string(pregnancy.StageFor(week))]
	}
	return v
}
