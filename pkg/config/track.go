package config

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/golangdaddy/roadster/pkg/assets"
	"github.com/golangdaddy/roadster/pkg/background"
	"github.com/golangdaddy/roadster/pkg/billboard"
	"github.com/golangdaddy/roadster/pkg/car"
	"github.com/golangdaddy/roadster/pkg/logging"
	"github.com/golangdaddy/roadster/pkg/ride"
	"github.com/golangdaddy/roadster/pkg/track"
	"github.com/golangdaddy/roadster/pkg/traffic"
)

var (
	ErrUnknownSprite  = errors.New("unknown sprite")
	ErrInvalidSprite  = errors.New("sprite needs a sheet and meta or a procedural kind")
	ErrInvalidScenery = errors.New("scenery row needs a positive spacing")
)

// Procedural sprite kinds
const (
	KindTree = "tree"
	KindBush = "bush"
	KindCar  = "car"
)

// RoadDef is one road of a track definition
type RoadDef struct {
	Width       float64          `toml:"width"`
	Texture     string           `toml:"texture"`      // Image file; empty for the built-in texture
	TextureSize int              `toml:"texture_size"` // Size of the built-in texture
	KeyPoints   []track.KeyPoint `toml:"keypoint"`
}

// SpriteDef names a sprite, loaded from a sheet or generated
type SpriteDef struct {
	Name   string   `toml:"name"`
	Sheet  string   `toml:"sheet"`
	Meta   string   `toml:"meta"`
	Kind   string   `toml:"kind"` // tree, bush or car when generated
	Width  int      `toml:"width"`
	Height int      `toml:"height"`
	Lods   int      `toml:"lods"`
	Color  [3]uint8 `toml:"color"` // Body color of generated cars
}

// BillboardDef places one static billboard
type BillboardDef struct {
	Sprite   string  `toml:"sprite"`
	Distance float64 `toml:"distance"`
	Offset   float64 `toml:"offset"`
}

// SceneryDef lines a stretch of track with a repeated billboard
type SceneryDef struct {
	Sprite string  `toml:"sprite"`
	Start  float64 `toml:"start"`
	End    float64 `toml:"end"`
	Every  float64 `toml:"every"`
	Offset float64 `toml:"offset"`
}

// CarDef is one traffic car
type CarDef struct {
	Sprite     string  `toml:"sprite"`
	Distance   float64 `toml:"distance"`
	Offset     float64 `toml:"offset"`
	Width      float64 `toml:"width"`
	Speed      float64 `toml:"speed"`
	SteerSpeed float64 `toml:"steer_speed"`
}

// TrafficDef is the traffic of a track
type TrafficDef struct {
	Lead float64  `toml:"lead"`
	Cars []CarDef `toml:"car"`
}

// HorizonDef is the backdrop strip: an image file or a generated one
type HorizonDef struct {
	Image  string `toml:"image"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// TrackDef is the content of a .track.toml file
type TrackDef struct {
	Name       string            `toml:"name"`
	Length     float64           `toml:"length"`
	Loop       bool              `toml:"loop"`
	Seed       int64             `toml:"seed"`
	Horizon    HorizonDef        `toml:"horizon"`
	Curvatures []track.Curvature `toml:"curvature"`
	Heels      []track.Heel      `toml:"heel"`
	Roads      []RoadDef         `toml:"road"`
	Sprites    []SpriteDef       `toml:"sprite"`
	Billboards []BillboardDef    `toml:"billboard"`
	Scenery    []SceneryDef      `toml:"scenery"`
	Traffic    TrafficDef        `toml:"traffic"`
}

// DecodeTrack parses a track definition
func DecodeTrack(r io.Reader) (TrackDef, error) {
	var def TrackDef
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&def); err != nil {
		return def, fmt.Errorf("failed to decode track: %w", err)
	}
	return def, nil
}

// LoadTrack reads a track definition file
func LoadTrack(path string) (TrackDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return TrackDef{}, fmt.Errorf("failed to open track: %w", err)
	}
	defer f.Close()

	def, err := DecodeTrack(f)
	if err != nil {
		return def, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// BuildPath turns a definition into a ride path: roads and their
// textures, sprites, billboards and traffic. Files are read through loader.
func BuildPath(def TrackDef, loader *assets.Loader) (ride.PathMeta, error) {
	roads := make([]*track.Road, 0, len(def.Roads))
	for i, rd := range def.Roads {
		road, err := buildRoad(rd, loader)
		if err != nil {
			return ride.PathMeta{}, fmt.Errorf("road %d: %w", i, err)
		}
		roads = append(roads, road)
	}

	data, err := track.NewData(def.Length, def.Curvatures, def.Heels, roads)
	if err != nil {
		return ride.PathMeta{}, fmt.Errorf("failed to build track %q: %w", def.Name, err)
	}

	catalog := billboard.NewCatalog()
	for i, sd := range def.Sprites {
		lods, err := buildSprite(sd, def.Seed+int64(i), loader)
		if err != nil {
			return ride.PathMeta{}, fmt.Errorf("sprite %q: %w", sd.Name, err)
		}
		catalog.Add(sd.Name, lods)
	}
	lookup := func(name string) (billboard.AssetID, error) {
		id, ok := catalog.Lookup(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownSprite, name)
		}
		return id, nil
	}

	billboards := billboard.New(catalog)
	for _, bd := range def.Billboards {
		id, err := lookup(bd.Sprite)
		if err != nil {
			return ride.PathMeta{}, err
		}
		billboards.AddStatic(billboard.Billboard{RoadDistance: bd.Distance, Offset: bd.Offset, Asset: id})
	}
	for _, sd := range def.Scenery {
		if !(sd.Every > 0) {
			return ride.PathMeta{}, fmt.Errorf("%w: %v", ErrInvalidScenery, sd.Every)
		}
		id, err := lookup(sd.Sprite)
		if err != nil {
			return ride.PathMeta{}, err
		}
		for d := sd.Start; d <= sd.End; d += sd.Every {
			billboards.AddStatic(billboard.Billboard{RoadDistance: d, Offset: sd.Offset, Asset: id})
		}
	}

	tr := traffic.New(data, def.Traffic.Lead)
	for _, cd := range def.Traffic.Cars {
		id, err := lookup(cd.Sprite)
		if err != nil {
			return ride.PathMeta{}, err
		}
		tr.AddCar(billboards, billboard.Billboard{RoadDistance: cd.Distance, Offset: cd.Offset, Asset: id}, cd.Width, cd.Speed, cd.SteerSpeed)
	}

	horizon, err := buildHorizon(def.Horizon, def.Seed, loader)
	if err != nil {
		return ride.PathMeta{}, fmt.Errorf("horizon: %w", err)
	}

	logging.Debug("track built", "name", def.Name, "roads", len(roads), "sprites", catalog.Len(), "billboards", billboards.Len())

	return ride.PathMeta{
		Length:     def.Length,
		Loop:       def.Loop,
		Track:      data,
		Billboards: billboards,
		Traffic:    tr,
		Horizon:    horizon,
	}, nil
}

func buildRoad(rd RoadDef, loader *assets.Loader) (*track.Road, error) {
	var tex *image.RGBA
	if rd.Texture != "" {
		img, err := loader.LoadRGBA(rd.Texture)
		if err != nil {
			return nil, err
		}
		tex = img
	} else {
		size := rd.TextureSize
		if size <= 0 {
			size = 512
		}
		tex = track.NewRoadTexture(size, track.DefaultPaint())
	}
	return track.NewRoad(rd.Width, rd.KeyPoints, tex)
}

func buildSprite(sd SpriteDef, seed int64, loader *assets.Loader) (*billboard.Lods, error) {
	if sd.Kind == "" {
		if sd.Sheet == "" || sd.Meta == "" {
			return nil, ErrInvalidSprite
		}
		return loader.LoadLods(sd.Sheet, sd.Meta)
	}

	lods := sd.Lods
	if lods <= 0 {
		lods = 4
	}
	width, height := sd.Width, sd.Height
	if width <= 0 || height <= 0 {
		width, height = 64, 96
	}
	gen := background.NewGenerator(width, height)

	var (
		sheet *image.RGBA
		rects []billboard.Rect
	)
	switch sd.Kind {
	case KindTree:
		sheet, rects = gen.GenerateTreeSheet(seed, lods)
	case KindBush:
		sheet, rects = gen.GenerateBushSheet(seed, lods)
	case KindCar:
		body := color.RGBA{sd.Color[0], sd.Color[1], sd.Color[2], 255}
		sheet, rects = background.Pack(car.Sprite(body), lods)
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrInvalidSprite, sd.Kind)
	}
	return billboard.BuildLods(sheet, billboard.EncodeMeta(rects))
}

func buildHorizon(hd HorizonDef, seed int64, loader *assets.Loader) (*image.RGBA, error) {
	if hd.Image != "" {
		return loader.LoadRGBA(hd.Image)
	}
	if hd.Width <= 0 || hd.Height <= 0 {
		return nil, nil
	}
	return background.NewGenerator(hd.Width, hd.Height).GenerateHorizon(seed), nil
}
