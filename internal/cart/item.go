package cart

import (
	"maps"

	"github.com/shopspring/decimal"
)

// Item is a single cart line. Two lines are the same iff the product id
// matches and the customizations are structurally equal; the same product
// with two different embroideries is two distinct lines.
type Item struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	Quantity      int             `json:"quantity"`
	Customization *Customization  `json:"customization,omitempty"`
}

// Customization describes the embroidery settings attached to a cart line:
// the first name to embroider, thread color, motif reference and the
// placement chosen on the personalization canvas. Extra carries free-form
// fields the canvas may add.
type Customization struct {
	FirstName string            `json:"first_name,omitempty"`
	Color     string            `json:"color,omitempty"`
	MotifID   string            `json:"motif_id,omitempty"`
	PosX      float64           `json:"pos_x,omitempty"`
	PosY      float64           `json:"pos_y,omitempty"`
	Scale     float64           `json:"scale,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Equal reports structural equality. A nil customization only equals nil.
// Extra is compared key-wise, so field order can never influence line
// identity the way serialized comparison would.
func (c *Customization) Equal(other *Customization) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.FirstName != other.FirstName ||
		c.Color != other.Color ||
		c.MotifID != other.MotifID ||
		c.PosX != other.PosX ||
		c.PosY != other.PosY ||
		c.Scale != other.Scale {
		return false
	}
	return maps.Equal(c.Extra, other.Extra)
}

// sameLine is the compound line-identity rule shared by add, update and
// remove operations.
func sameLine(a Item, id int64, cust *Customization) bool {
	return a.ID == id && a.Customization.Equal(cust)
}
