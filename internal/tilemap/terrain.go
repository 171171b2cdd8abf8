package tilemap

// Terrain identifies the base surface of a tile.
type Terrain uint8

const (
	TerrainGrassland Terrain = iota // Default open ground
	TerrainPlains
	TerrainDesert
	TerrainTundra
	TerrainForest
	TerrainJungle
	TerrainSwamp
	TerrainHills
	TerrainMountains
	TerrainGlacier
	TerrainLake  // Fresh water, counts as ocean for movement
	TerrainOcean // Shallow ocean
	TerrainDeep  // Deep ocean
	terrainCount // sentinel
)

// IsOcean returns true for every water terrain.
func (t Terrain) IsOcean() bool {
	switch t {
	case TerrainLake, TerrainOcean, TerrainDeep:
		return true
	default:
		return false
	}
}

// terrainMoveCost returns the full moves a land unit pays to enter t.
func terrainMoveCost(t Terrain) int {
	switch t {
	case TerrainGrassland, TerrainPlains, TerrainDesert, TerrainTundra:
		return 1
	case TerrainForest, TerrainJungle, TerrainSwamp, TerrainHills, TerrainGlacier:
		return 2
	case TerrainMountains:
		return 3
	default:
		return 1
	}
}

// roadTime returns the worker turns needed to lay a road on t, or 0
// where no road can be built.
func roadTime(t Terrain) int {
	switch t {
	case TerrainGrassland, TerrainPlains, TerrainDesert, TerrainTundra:
		return 2
	case TerrainForest, TerrainJungle, TerrainSwamp, TerrainHills, TerrainGlacier:
		return 4
	case TerrainMountains:
		return 6
	default:
		return 0
	}
}

// terrainGlyph returns the ASCII glyph used by scenario files and text views.
func terrainGlyph(t Terrain) rune {
	switch t {
	case TerrainGrassland:
		return '.'
	case TerrainPlains:
		return ','
	case TerrainDesert:
		return 'd'
	case TerrainTundra:
		return 't'
	case TerrainForest:
		return 'f'
	case TerrainJungle:
		return 'j'
	case TerrainSwamp:
		return 's'
	case TerrainHills:
		return 'h'
	case TerrainMountains:
		return 'M'
	case TerrainGlacier:
		return 'a'
	case TerrainLake:
		return '+'
	case TerrainOcean:
		return '~'
	case TerrainDeep:
		return ':'
	default:
		return '?'
	}
}

// Glyph returns the map glyph for t.
func (t Terrain) Glyph() rune { return terrainGlyph(t) }

var terrainNames = [terrainCount]string{
	TerrainGrassland: "grassland",
	TerrainPlains:    "plains",
	TerrainDesert:    "desert",
	TerrainTundra:    "tundra",
	TerrainForest:    "forest",
	TerrainJungle:    "jungle",
	TerrainSwamp:     "swamp",
	TerrainHills:     "hills",
	TerrainMountains: "mountains",
	TerrainGlacier:   "glacier",
	TerrainLake:      "lake",
	TerrainOcean:     "ocean",
	TerrainDeep:      "deep ocean",
}

func (t Terrain) String() string {
	if t >= terrainCount {
		return "unknown"
	}
	return terrainNames[t]
}

// TerrainFromGlyph is the inverse of Glyph.
func TerrainFromGlyph(r rune) (Terrain, bool) {
	for t := Terrain(0); t < terrainCount; t++ {
		if terrainGlyph(t) == r {
			return t, true
		}
	}
	return 0, false
}
