package board

// Board is the immutable tile catalog plus derived indexes. One Board is
// shared by every game; all per-game mutation happens on game state.
type Board struct {
	tiles  []Tile
	groups map[string][]int // color -> tile ids
	jail   int              // id of the jail tile
}

func prop(name, color string, price int, family string) Tile {
	return Tile{Type: TypeProperty, Name: name, Price: price, Color: color, Family: family}
}

func sub(name, color string, price int, family string, st Subtype) Tile {
	t := prop(name, color, price, family)
	t.Subtype = st
	return t
}

func rail(name string) Tile  { return sub(name, "rail", 200, "rail", SubRail) }
func bus(name string) Tile   { return sub(name, "rail", 200, "rail", SubBus) }
func ferry(name string) Tile { return sub(name, "ferry", 180, "ferry", SubFerry) }
func air(name string) Tile   { return sub(name, "air", 260, "air", SubAir) }
func util(name string) Tile  { return sub(name, "util", 150, "util", SubUtility) }

func special(tt TileType, name string) Tile { return Tile{Type: tt, Name: name} }

// boardDef is the full 104-tile board, 26 per side. Order matters: tile
// IDs are positional.
var boardDef = []Tile{
	special(TypeStart, "SALIDA"),

	// Grupo TXAKOLI
	prop("San Lorenzo ermitie", "brown", 60, "Txakoli"),
	prop("Santa Maria Elizie", "brown", 70, "Txakoli"),
	rail("Metro Zelaieta Sur"),
	special(TypeTax, "Impuesto 33%"),

	// Grupo PINTXO
	prop("Pipi´s Bar", "cyan", 80, "Pintxo"),
	prop("Artea", "cyan", 90, "Pintxo"),
	bus("Bizkaibus Herriko Enparantza"),
	util("Iberduero Aguas"),

	// Grupo KALEA
	prop("Perrukeria", "pink", 100, "Kalea"),
	prop("Estetika Zentroa", "pink", 105, "Kalea"),
	ferry("Ferris Laida"),
	special(TypeTax, "Impuesto 33%"),

	// Grupo MENDI
	prop("Atxarre", "orange", 120, "Mendi"),
	prop("San Miguel", "orange", 130, "Mendi"),
	prop("Omako Basoa", "orange", 140, "Mendi"),
	special(TypeGoToJail, "Ir a la cárcel"),

	// Grupo ITSASO
	prop("Gruas Arego", "red", 150, "Itsaso"),
	prop("Talleres Arteaga", "red", 160, "Itsaso"),
	rail("Metro Arteaga Urias"),
	special(TypeTax, "Impuesto 33%"),
	special(TypeEvent, "Suerte"),

	// Grupo ARRANTZALE
	prop("Casa Rural Ozollo", "yellow", 170, "Arrantzale"),
	prop("Aberasturi", "yellow", 180, "Arrantzale"),
	util("IberdueroLuz"),
	bus("Bizkaibus Mendialdua"),

	special(TypeJail, "Cárcel"),

	// Grupo GUGGEN
	prop("Bird Center", "green", 190, "Guggen"),
	prop("Autokarabanak", "green", 200, "Guggen"),
	special(TypeTax, "Impuesto 33%"),
	sub("Casino Blackjack", "pink", 300, "Rosa", SubCasinoBJ),

	// Grupo ROJO
	prop("Txokoa", "blue", 210, "Rojo"),
	prop("Cocina Pablo", "blue", 220, "Rojo"),
	prop("Casa Minte", "blue", 230, "Rojo"),
	rail("Metro Islas"),
	special(TypeTax, "Impuesto 33%"),

	special(TypePark, "Parkie"),

	// Grupo NARANJA
	prop("Marko Pollo", "amber", 240, "Naranja"),
	prop("Arketas", "amber", 250, "Naranja"),
	ferry("Ferris Mundaka"),
	special(TypeGoToJail, "Ir a la cárcel"),
	special(TypeEvent, "Suerte"),

	// Grupo AMARILLO
	prop("Joshua´s", "lime", 260, "Amarillo"),
	prop("Santana Esnekiak", "lime", 270, "Amarillo"),
	prop("Klinika Dental Arteaga", "lime", 280, "Amarillo"),
	bus("Bizkaibus Muruetagane"),
	special(TypeTax, "Impuesto 33%"),

	// Grupo VERDE
	prop("Kanala Bitch", "emerald", 290, "Verde"),
	prop("Kanaleko Tabernie", "emerald", 300, "Verde"),
	air("Loiu"),
	rail("Metro Portuas"),
	special(TypeEvent, "Suerte"),

	// Grupo AZUL
	prop("Baratze", "teal", 310, "Azul"),
	prop("Eskolie", "teal", 320, "Azul"),
	special(TypeTax, "Impuesto 33%"),
	sub("Fiore", "green", 240, "Verde", SubFiore),

	// Grupo CIAN
	prop("Garbigune", "sky", 330, "Cian"),
	prop("Padura", "sky", 340, "Cian"),
	prop("Santanako Desaguie", "sky", 350, "Cian"),
	bus("Bizkaibus Ibarrekozubi"),
	special(TypeTax, "Impuesto 33%"),

	// Grupo ROSA
	prop("Farmazixe", "rose", 360, "Rosa"),
	prop("Medikue", "rose", 370, "Rosa"),
	air("Ozolloko Aireportue"),
	special(TypeGoToJail, "Ir a la cárcel"),
	special(TypeEvent, "Suerte"),

	// Grupo BASERRI
	prop("Frontoie", "indigo", 380, "Baserri"),
	prop("Skateko Pistie", "indigo", 390, "Baserri"),
	prop("Txarlin Pistie", "indigo", 400, "Baserri"),
	rail("Metro Ozollo"),
	special(TypeTax, "Impuesto 33%"),

	// Grupo SIRIMIRI
	prop("Txopebenta", "violet", 410, "Sirimiri"),
	prop("Jaunsolo Molino", "violet", 420, "Sirimiri"),
	sub("Casino Ruleta", "pink", 300, "Rosa", SubCasinoRoulette),

	// Grupo BILBO
	prop("Lezika", "fuchsia", 430, "Bilbo"),
	prop("Bernaetxe", "fuchsia", 440, "Bilbo"),
	prop("Baserri Maitea", "fuchsia", 450, "Bilbo"),
	special(TypeGoToJail, "Ir a la cárcel"),
	special(TypeTax, "Impuesto 33%"),
	special(TypeEvent, "Suerte"),

	// Grupo GAZTELUGATXE
	prop("Artiako Kanterie", "slate", 460, "Gaztelugatxe"),
	prop("Ereñokoa Ez Dan Kanterie", "slate", 470, "Gaztelugatxe"),

	// Grupo NERVIÓN
	prop("Artiako GYM-e", "purple", 480, "Nervión"),
	prop("Ereñoko GYM-e", "purple", 490, "Nervión"),
	prop("Frontoiko Bici estatikak", "purple", 500, "Nervión"),

	special(TypeSlots, "Tragaperras"),

	// Grupo TXISTORRA
	prop("Solabe", "red", 510, "Txistorra"),
	prop("Katxitxone", "red", 520, "Txistorra"),

	// Grupo SAGARDOA
	prop("San Antolin", "orange", 530, "Sagardoa"),
	prop("Farolak", "orange", 540, "Sagardoa"),

	// Grupo KAIKU
	prop("Santi Mamiñe", "yellow", 550, "Kaiku"),
	prop("Portuaseko Kobazuloa", "yellow", 560, "Kaiku"),

	// Grupo ZORIONAK
	prop("Hemingway Etxea", "blue", 570, "Zorionak"),
	prop("Etxealaia", "blue", 580, "Zorionak"),

	special(TypePark, "Parkie"),

	// Grupo LOIU
	prop("Kastillue", "cyan", 590, "Loiu"),
	prop("Errota", "cyan", 600, "Loiu"),

	special(TypeGoToJail, "Ir a la cárcel"),
	special(TypeBank, "Banca corrupta"),
	special(TypeSlots, "Tragaperras"),
	special(TypeBank, "Banca corrupta"),

	special(TypeEvent, "Obras Públicas"),
	special(TypeEvent, "Manifestación"),
	special(TypeEvent, "Día Festivo"),
}

// New builds the standard board.
func New() *Board {
	tiles := make([]Tile, len(boardDef))
	copy(tiles, boardDef)

	b := &Board{
		tiles:  tiles,
		groups: make(map[string][]int),
		jail:   -1,
	}
	for i := range b.tiles {
		b.tiles[i].ID = i
		t := &b.tiles[i]
		if t.Type == TypeJail && b.jail == -1 {
			b.jail = i
		}
		if t.IsProperty() && t.Color != "" {
			b.groups[t.Color] = append(b.groups[t.Color], i)
		}
	}
	return b
}

// Size returns the number of tiles on the board.
func (b *Board) Size() int { return len(b.tiles) }

// Tile returns the definition for the given id. Callers must pass a
// valid id; positions are always normalized before lookup.
func (b *Board) Tile(id int) Tile { return b.tiles[id] }

// Tiles returns the full catalog in board order.
func (b *Board) Tiles() []Tile { return b.tiles }

// JailTile returns the id of the jail cell.
func (b *Board) JailTile() int { return b.jail }

// Group returns the tile ids sharing the given color tag.
func (b *Board) Group(color string) []int { return b.groups[color] }

// GroupOf returns the ids of all tiles in the same color group as tileID,
// including tileID itself. Nil for tiles without a color group.
func (b *Board) GroupOf(tileID int) []int {
	t := b.Tile(tileID)
	if !t.IsProperty() || t.Color == "" {
		return nil
	}
	return b.groups[t.Color]
}

// TransportTiles returns the ids of every transport-network tile.
func (b *Board) TransportTiles() []int {
	var out []int
	for _, t := range b.tiles {
		if t.Subtype.IsTransport() {
			out = append(out, t.ID)
		}
	}
	return out
}
