// Package gallery implements the image gallery: category filter, caption
// search, shuffle, persisted favourites and a lightbox viewer.
package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"

	"github.com/lazypower/widgetry/internal/kv"
	"github.com/lazypower/widgetry/internal/logging"
)

// KeyFavorites is the persistence key for the favourites list.
const KeyFavorites = "favorites"

// CategoryAll disables category filtering.
const CategoryAll = "all"

// SwipeThreshold is the minimum horizontal travel, in pixels, of a swipe.
const SwipeThreshold = 50

// Image is one catalogue entry.
type Image struct {
	Src      string `json:"src" yaml:"src"`
	Category string `json:"category" yaml:"category"`
	Caption  string `json:"caption" yaml:"caption"`
}

// DefaultImages is the built-in catalogue.
func DefaultImages() []Image {
	return []Image{
		{Src: "img/natr.jpg", Category: "nature", Caption: "Beautiful Forest"},
		{Src: "img/urbon1.jpg", Category: "urban", Caption: "City Skyline"},
		{Src: "img/anim.jpg", Category: "animals", Caption: "Wildlife Pattern"},
		{Src: "img/natr2.jpg", Category: "nature", Caption: "Mountain View"},
		{Src: "img/urbon2.jpg", Category: "urban", Caption: "Street Scene"},
		{Src: "img/anim2.jpg", Category: "animals", Caption: "Animal Shapes"},
	}
}

// Gallery holds the catalogue, the visible subset and lightbox state.
// Not safe for concurrent use.
type Gallery struct {
	store     kv.Store
	log       *slog.Logger
	rng       *rand.Rand
	images    []Image
	visible   []Image
	category  string
	query     string
	favorites []string

	open   bool
	index  int
	zoomed bool
}

type Option func(*Gallery)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gallery) {
		g.log = l
	}
}

// WithRand sets the random source used by Shuffle.
func WithRand(r *rand.Rand) Option {
	return func(g *Gallery) {
		g.rng = r
	}
}

// New creates a gallery over images. A nil slice uses DefaultImages.
func New(store kv.Store, images []Image, opts ...Option) *Gallery {
	if images == nil {
		images = DefaultImages()
	}
	g := &Gallery{
		store:    store,
		log:      logging.NewNop(),
		images:   slices.Clone(images),
		visible:  slices.Clone(images),
		category: CategoryAll,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Load restores the favourites list. Corrupt data resets it to empty.
func (g *Gallery) Load(ctx context.Context) {
	g.favorites = nil
	raw, err := g.store.Get(ctx, KeyFavorites)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			g.log.Warn("read favorites failed", "error", err)
		}
		return
	}
	var favs []string
	if err := json.Unmarshal([]byte(raw), &favs); err != nil {
		g.log.Warn("resetting unparsable favorites", "error", err)
		return
	}
	g.favorites = favs
}

// Images returns the full catalogue.
func (g *Gallery) Images() []Image {
	return slices.Clone(g.images)
}

// Visible returns the images that pass the current filter and search.
func (g *Gallery) Visible() []Image {
	return slices.Clone(g.visible)
}

// Category returns the active category filter.
func (g *Gallery) Category() string {
	return g.category
}

// Query returns the active search query.
func (g *Gallery) Query() string {
	return g.query
}

// Categories lists the distinct categories in catalogue order.
func (g *Gallery) Categories() []string {
	var cats []string
	for _, img := range g.images {
		if !slices.Contains(cats, img.Category) {
			cats = append(cats, img.Category)
		}
	}
	return cats
}

// Filter selects a category ("all" for everything) and reapplies the search.
func (g *Gallery) Filter(category string) {
	if category == "" {
		category = CategoryAll
	}
	g.category = category
	g.refresh()
}

// Search sets the caption query and reapplies the active category.
func (g *Gallery) Search(query string) {
	g.query = query
	g.refresh()
}

func (g *Gallery) refresh() {
	q := strings.ToLower(g.query)
	g.visible = g.visible[:0]
	for _, img := range g.images {
		if g.category != CategoryAll && img.Category != g.category {
			continue
		}
		if !strings.Contains(strings.ToLower(img.Caption), q) {
			continue
		}
		g.visible = append(g.visible, img)
	}
	if g.index >= len(g.visible) {
		g.Close()
		g.index = 0
	}
}

// Shuffle randomly permutes the visible images.
func (g *Gallery) Shuffle() {
	g.rng.Shuffle(len(g.visible), func(i, j int) {
		g.visible[i], g.visible[j] = g.visible[j], g.visible[i]
	})
}

// IsFavorite reports whether src is in the favourites list.
func (g *Gallery) IsFavorite(src string) bool {
	return slices.Contains(g.favorites, src)
}

// Favorites returns the favourites list in insertion order.
func (g *Gallery) Favorites() []string {
	return slices.Clone(g.favorites)
}

// ToggleFavorite adds or removes src and persists the list. It returns the
// new favourite state.
func (g *Gallery) ToggleFavorite(ctx context.Context, src string) bool {
	fav := !g.IsFavorite(src)
	if fav {
		g.favorites = append(g.favorites, src)
	} else {
		g.favorites = slices.DeleteFunc(g.favorites, func(s string) bool { return s == src })
	}

	data, _ := json.Marshal(g.favoritesOrEmpty())
	if err := g.store.Set(ctx, KeyFavorites, string(data)); err != nil {
		g.log.Warn("write favorites failed", "error", err)
	}
	return fav
}

func (g *Gallery) favoritesOrEmpty() []string {
	if g.favorites == nil {
		return []string{}
	}
	return g.favorites
}

// Open shows the visible image at index i in the lightbox. Out-of-range
// indexes are ignored.
func (g *Gallery) Open(i int) bool {
	if i < 0 || i >= len(g.visible) {
		return false
	}
	g.index = i
	g.open = true
	g.zoomed = false
	return true
}

// Close hides the lightbox and resets zoom.
func (g *Gallery) Close() {
	g.open = false
	g.zoomed = false
}

// IsOpen reports whether the lightbox is showing.
func (g *Gallery) IsOpen() bool {
	return g.open
}

// Zoomed reports whether the lightbox image is zoomed.
func (g *Gallery) Zoomed() bool {
	return g.zoomed
}

// Index returns the lightbox position within the visible list.
func (g *Gallery) Index() int {
	return g.index
}

// Next advances the lightbox, wrapping at the end.
func (g *Gallery) Next() {
	if len(g.visible) == 0 {
		return
	}
	g.index = (g.index + 1) % len(g.visible)
	g.zoomed = false
}

// Prev steps the lightbox back, wrapping at the start.
func (g *Gallery) Prev() {
	if len(g.visible) == 0 {
		return
	}
	g.index = (g.index - 1 + len(g.visible)) % len(g.visible)
	g.zoomed = false
}

// ToggleZoom flips the zoom state and returns it.
func (g *Gallery) ToggleZoom() bool {
	g.zoomed = !g.zoomed
	return g.zoomed
}

// Current returns the lightbox image.
func (g *Gallery) Current() (Image, bool) {
	if g.index < 0 || g.index >= len(g.visible) {
		return Image{}, false
	}
	return g.visible[g.index], true
}

// whitespace matches the same runs a browser regexp \s does, Unicode spaces included.
var whitespace = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// DownloadName is the file name offered when saving the lightbox image.
func (g *Gallery) DownloadName() string {
	img, ok := g.Current()
	if !ok {
		return ""
	}
	return whitespace.ReplaceAllString(img.Caption, "_") + ".jpg"
}

// HandleKey applies lightbox keyboard navigation. Keys are ignored while the
// lightbox is closed. It reports whether the key was consumed.
func (g *Gallery) HandleKey(key string) bool {
	if !g.open {
		return false
	}
	switch key {
	case "ArrowRight":
		g.Next()
	case "ArrowLeft":
		g.Prev()
	case "Escape":
		g.Close()
	case "z", "Z":
		g.ToggleZoom()
	default:
		return false
	}
	return true
}

// Swipe navigates on a horizontal touch gesture from startX to endX.
func (g *Gallery) Swipe(startX, endX float64) {
	switch {
	case startX-endX > SwipeThreshold:
		g.Next()
	case endX-startX > SwipeThreshold:
		g.Prev()
	}
}

// View is a serialisable snapshot of the gallery.
type View struct {
	Category string      `json:"category"`
	Query    string      `json:"query"`
	Images   []ImageView `json:"images"`
	Lightbox *Lightbox   `json:"lightbox,omitempty"`
}

// ImageView is an image annotated with its favourite state.
type ImageView struct {
	Image
	Favorite bool `json:"favorite"`
}

// Lightbox describes the open viewer.
type Lightbox struct {
	Index        int    `json:"index"`
	Image        Image  `json:"image"`
	Zoomed       bool   `json:"zoomed"`
	DownloadName string `json:"download_name"`
}

// View returns the current snapshot.
func (g *Gallery) View() View {
	v := View{Category: g.category, Query: g.query, Images: make([]ImageView, 0, len(g.visible))}
	for _, img := range g.visible {
		v.Images = append(v.Images, ImageView{Image: img, Favorite: g.IsFavorite(img.Src)})
	}
	if img, ok := g.Current(); ok && g.open {
		v.Lightbox = &Lightbox{Index: g.index, Image: img, Zoomed: g.zoomed, DownloadName: g.DownloadName()}
	}
	return v
}
