package client

import (
	"context"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// SwipeThreshold is the minimum horizontal drag distance before a swipe
// counts as a navigation gesture.
const SwipeThreshold = 50.0

// PlaceholderImage is shown for listings without any active image.
const PlaceholderImage = "/images/placeholder.svg"

// PriceFallback is displayed when a listing has no usable price.
const PriceFallback = "Kaina sutartinė"

var houseTypeLabels = map[string]string{
	"namas":     "Namas",
	"butas":     "Butas",
	"vila":      "Vila",
	"kotedžas":  "Kotedžas",
	"dupleksas": "Dupleksas",
	"kita":      "Kita",
}

var statusLabels = map[string]string{
	"parduodamas": "Parduodamas",
	"rezervuotas": "Rezervuotas",
	"parduotas":   "Parduotas",
}

var pricePrinter = message.NewPrinter(language.Lithuanian)

// FormatPrice renders a price with thousands separators, no decimals, and a
// euro sign. Non-positive or non-finite values fall back to a placeholder
// instead of rendering a broken number.
func FormatPrice(price float64) string {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return PriceFallback
	}
	return pricePrinter.Sprintf("%v €", number.Decimal(price, number.MaxFractionDigits(0)))
}

// HouseTypeLabel returns the display label for a house type. Unknown values
// are shown as-is so legacy rows never break rendering.
func HouseTypeLabel(houseType string) string {
	if label, ok := houseTypeLabels[houseType]; ok {
		return label
	}
	return houseType
}

// StatusLabel returns the display label for a listing status, falling back
// to the raw value when unrecognized.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// PrimaryImage returns the URL of the house's first active image, or the
// placeholder when it has none. The server already orders images by sort
// order, so the first entry is the primary one.
func PrimaryImage(h House) string {
	for _, img := range h.Images {
		if img.IsActive {
			return img.ImageURL
		}
	}
	return PlaceholderImage
}

// Modal is the gallery's detail view state: one selected house, the carousel
// position, and whether the full-screen viewer is layered on top.
type Modal struct {
	House      *House
	ImageIndex int
	Fullscreen bool
}

// Gallery is the public site's listing view: a one-shot fetch of active
// listings plus the detail modal state. Not safe for concurrent use.
type Gallery struct {
	client *Client

	houses []House
	state  FetchState
	err    error

	modal Modal
	swipe swipeTracker
}

// NewGallery creates a Gallery backed by the given client.
func NewGallery(c *Client) *Gallery {
	return &Gallery{client: c}
}

// Houses returns the fetched listings. Empty until Load succeeds.
func (g *Gallery) Houses() []House { return g.houses }

// State returns the fetch state.
func (g *Gallery) State() FetchState { return g.state }

// Err returns the fetch failure, or nil.
func (g *Gallery) Err() error { return g.err }

// Load fetches the active listings exactly once. Concurrent or repeated calls
// after a completed load are no-ops. A failed fetch degrades to an empty set
// in the error state rather than failing the page.
func (g *Gallery) Load(ctx context.Context) error {
	if g.state == FetchLoading || g.state == FetchLoaded {
		return nil
	}
	g.state = FetchLoading

	houses, err := g.client.ListHouses(ctx)
	if err != nil {
		g.state = FetchError
		g.err = err
		g.houses = nil
		return err
	}
	g.houses = houses
	g.state = FetchLoaded
	g.err = nil
	return nil
}

// Modal returns the current detail view state.
func (g *Gallery) Modal() Modal { return g.modal }

// OpenHouse opens the detail modal for the house with the given id, resetting
// the carousel to the first image. Unknown ids are ignored.
func (g *Gallery) OpenHouse(id uint) {
	for i := range g.houses {
		if g.houses[i].ID == id {
			g.modal = Modal{House: &g.houses[i]}
			g.swipe = swipeTracker{}
			return
		}
	}
}

// CloseModal closes the detail modal and any viewer above it.
func (g *Gallery) CloseModal() {
	g.modal = Modal{}
}

// imageCount returns the number of images in the open house, or 0.
func (g *Gallery) imageCount() int {
	if g.modal.House == nil {
		return 0
	}
	return len(g.modal.House.Images)
}

// NextImage advances the carousel, wrapping from the last image to the first.
func (g *Gallery) NextImage() {
	if n := g.imageCount(); n > 0 {
		g.modal.ImageIndex = (g.modal.ImageIndex + 1) % n
	}
}

// PrevImage steps the carousel back, wrapping from the first image to the last.
func (g *Gallery) PrevImage() {
	if n := g.imageCount(); n > 0 {
		g.modal.ImageIndex = (g.modal.ImageIndex - 1 + n) % n
	}
}

// ClickImage opens the full-screen viewer from the detail modal. Clicking the
// image inside the viewer does nothing (only the backdrop closes it).
func (g *Gallery) ClickImage() {
	if g.modal.House != nil {
		g.modal.Fullscreen = true
	}
}

// ClickBackdrop closes the full-screen viewer if open, otherwise the modal.
func (g *Gallery) ClickBackdrop() {
	if g.modal.Fullscreen {
		g.modal.Fullscreen = false
		return
	}
	g.CloseModal()
}

// HandleKey processes keyboard input for the full-screen viewer. Arrow keys
// navigate, Escape closes the viewer. Keys are ignored when the viewer is
// closed.
func (g *Gallery) HandleKey(key string) {
	if !g.modal.Fullscreen {
		return
	}
	switch key {
	case "ArrowLeft":
		g.PrevImage()
	case "ArrowRight":
		g.NextImage()
	case "Escape":
		g.modal.Fullscreen = false
	}
}

// swipeTracker recognizes horizontal swipe gestures. A gesture navigates at
// most once, and only when the drag distance reaches the threshold.
type swipeTracker struct {
	startX float64
	active bool
}

// SwipeStart begins tracking a touch gesture at the given x coordinate.
func (g *Gallery) SwipeStart(x float64) {
	g.swipe = swipeTracker{startX: x, active: true}
}

// SwipeEnd completes the gesture at the given x coordinate and navigates when
// the horizontal distance reaches the threshold: a leftward drag shows the
// next image, a rightward drag the previous one.
func (g *Gallery) SwipeEnd(x float64) {
	if !g.swipe.active {
		return
	}
	delta := x - g.swipe.startX
	g.swipe = swipeTracker{}

	if math.Abs(delta) < SwipeThreshold {
		return
	}
	if delta < 0 {
		g.NextImage()
	} else {
		g.PrevImage()
	}
}
