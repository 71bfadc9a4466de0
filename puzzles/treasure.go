/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package puzzles

import (
	"slices"
	"time"
)

const treasureIntro = "A mysterious treasure awaits... Right-click on characters and objects to uncover their secrets."

// MenuItem is one entry of an entity's context menu.
type MenuItem struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

// Entity is a character or object in the treasure room.
type Entity struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Menu []MenuItem `json:"menu"`
}

var treasureEntities = map[string]Entity{
	"guard": {ID: "guard", Name: "Guard", Menu: []MenuItem{
		{Text: "Talk to Guard", Action: "talk"},
	}},
	"wizard": {ID: "wizard", Name: "Wizard", Menu: []MenuItem{
		{Text: "Talk to Wizard", Action: "talk"},
		{Text: "Ask for Key", Action: "ask-key"},
	}},
	"chest": {ID: "chest", Name: "Chest", Menu: []MenuItem{
		{Text: "Examine Chest", Action: "examine"},
		{Text: "Open Chest", Action: "open"},
	}},
	"cat": {ID: "cat", Name: "Cat", Menu: []MenuItem{
		{Text: "Talk to Cat", Action: "talk"},
		{Text: "Pet Cat", Action: "pet"},
	}},
	"librarian": {ID: "librarian", Name: "Librarian", Menu: []MenuItem{
		{Text: "Talk to Librarian", Action: "talk"},
		{Text: "Consult about Treasures", Action: "consult"},
	}},
	"scroll": {ID: "scroll", Name: "Scroll", Menu: []MenuItem{
		{Text: "Read Scroll", Action: "read"},
	}},
}

var treasureLayout = []string{"guard", "wizard", "chest", "cat", "librarian", "scroll"}

// Treasure is a small dialogue graph: the key comes from the wizard, the key
// opens the chest, and the scroll inside the chest solves the mystery. Every
// action that changes state answers "already" on repeats.
type Treasure struct {
	lifecycle
	layout  []string
	message string

	talkedToGuard      bool
	gotKey             bool
	openedChest        bool
	foundClue          bool
	petCat             bool
	consultedLibrarian bool
}

type TreasureView struct {
	Message  string   `json:"message"`
	Entities []Entity `json:"entities"`
	HasKey   bool     `json:"has_key"`
	Opened   bool     `json:"opened"`
	Solved   bool     `json:"solved"`
}

func NewTreasure() Handler {
	return &Treasure{}
}

func (t *Treasure) Mount(env Env) {
	*t = Treasure{
		lifecycle: lifecycle{env: env},
		layout:    shuffled(env.Rand, treasureLayout),
		message:   treasureIntro,
	}
}

func (t *Treasure) Handle(in Input) error {
	if t.frozen() {
		return nil
	}
	if in.Action != "interact" {
		return unknownAction("treasure", in.Action)
	}

	entity, ok := treasureEntities[in.Target]
	if !ok {
		return invalidInput("treasure", "no entity %q", in.Target)
	}
	if !slices.ContainsFunc(entity.Menu, func(m MenuItem) bool { return m.Action == in.Value }) {
		return unknownAction("treasure "+entity.ID, in.Value)
	}

	switch entity.ID {
	case "guard":
		t.guard()
	case "wizard":
		t.wizard(in.Value)
	case "chest":
		t.chest(in.Value)
	case "scroll":
		t.scroll()
	case "cat":
		t.cat(in.Value)
	case "librarian":
		t.librarian(in.Value)
	}

	return nil
}

func (t *Treasure) guard() {
	if t.talkedToGuard {
		t.message = "Guard: 'I already told you about the wizard!'"
		return
	}
	t.talkedToGuard = true
	t.message = "Guard: 'The treasure chest is locked. The wizard might have the key...'"
}

func (t *Treasure) wizard(verb string) {
	if verb == "talk" {
		t.message = "Wizard: 'I have magical items that might help...'"
		return
	}
	if t.gotKey {
		t.message = "Wizard: 'I already gave you the key!'"
		return
	}
	t.gotKey = true
	t.message = "Wizard: 'Here's the key! But beware, the chest holds more than treasure...'"
}

func (t *Treasure) chest(verb string) {
	switch {
	case verb == "examine":
		t.message = "A sturdy wooden chest with an intricate lock."
	case !t.gotKey:
		t.message = "The chest is locked! You need a key."
	case t.openedChest:
		t.message = "The chest is already open."
	default:
		t.openedChest = true
		t.message = "You opened the chest! Inside you find a mysterious scroll..."
	}
}

func (t *Treasure) scroll() {
	switch {
	case !t.openedChest:
		t.message = "The scroll is sealed inside the chest. You need to open it first!"
	case t.foundClue:
		t.message = "You've already read the scroll!"
	default:
		t.foundClue = true
		t.message = "The scroll reads: 'Congratulations! You've solved the mystery!'"
		t.win(1500 * time.Millisecond)
	}
}

func (t *Treasure) cat(verb string) {
	if verb == "talk" {
		t.message = "Cat: 'Meow meow... Pet me for a hint!'"
		return
	}
	if t.petCat {
		t.message = "Cat: 'Meow... I already told you about the librarian!'"
		return
	}
	t.petCat = true
	t.message = "Cat: 'Purr... The librarian knows ancient secrets about treasure chests...'"
}

func (t *Treasure) librarian(verb string) {
	if verb == "talk" {
		t.message = "Librarian: 'These old books hold many secrets...'"
		return
	}
	if t.consultedLibrarian {
		t.message = "Librarian: 'I already shared the ancient wisdom with you!'"
		return
	}
	t.consultedLibrarian = true
	t.message = "Librarian: 'Ancient chests often contain more than gold... look for scrolls!'"
}

func (t *Treasure) View() any {
	entities := make([]Entity, 0, len(t.layout))
	for _, id := range t.layout {
		entities = append(entities, treasureEntities[id])
	}

	return TreasureView{
		Message:  t.message,
		Entities: entities,
		HasKey:   t.gotKey,
		Opened:   t.openedChest,
		Solved:   t.foundClue || t.frozen(),
	}
}
