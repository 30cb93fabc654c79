package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/village-engine/pkg/state"
)

// Validates the seed data files (villagers, items, quests, crises)
// before they ship. Usage: validate [data-dir]

func main() {
	dataDir := "./data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	v := &SeedValidator{dataDir: dataDir}

	v.validateVillagers()
	v.validateItems()
	v.validateQuests()
	v.validateCrises()

	if len(v.errors) > 0 {
		fmt.Fprintf(os.Stderr, "Validation failed:\n%s\n", strings.Join(v.errors, "\n"))
		os.Exit(1)
	}

	fmt.Println("Seed data is valid!")
}

type SeedValidator struct {
	dataDir string
	errors  []string
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

var validCategories = map[state.ItemCategory]bool{
	state.CategoryFood:     true,
	state.CategoryMedical:  true,
	state.CategoryMaterial: true,
	state.CategoryTool:     true,
	state.CategoryResource: true,
}

// decodeSeed reads and strictly decodes one seed file. Unknown fields
// are rejected so typos in seed data fail here rather than silently
// dropping content at runtime.
func (v *SeedValidator) decodeSeed(name string, dst any) bool {
	path := filepath.Join(v.dataDir, name)
	fmt.Printf("Validating %s...\n", path)

	data, err := os.ReadFile(path)
	if err != nil {
		v.addError(fmt.Sprintf("%s: failed to read: %v", name, err))
		return false
	}
	if !json.Valid(data) {
		v.addError(fmt.Sprintf("%s: invalid JSON", name))
		return false
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		v.addError(fmt.Sprintf("%s: failed strict JSON unmarshaling: %v", name, err))
		return false
	}
	return true
}

func (v *SeedValidator) validateVillagers() {
	var villagers []state.Villager
	if !v.decodeSeed("villagers.json", &villagers) {
		return
	}
	if len(villagers) == 0 {
		v.addError("villagers.json: roster is empty")
	}

	seen := map[string]bool{}
	for _, villager := range villagers {
		v.validateID("villagers.json villager ID", villager.ID)
		if seen[villager.ID] {
			v.addError(fmt.Sprintf("villagers.json: duplicate villager ID '%s'", villager.ID))
		}
		seen[villager.ID] = true

		if villager.Name == "" {
			v.addError(fmt.Sprintf("villagers.json: villager '%s' has no name", villager.ID))
		}
		if villager.Relationship < 0 || villager.Relationship > 100 {
			v.addError(fmt.Sprintf("villagers.json: villager '%s' relationship %v outside [0,100]", villager.ID, villager.Relationship))
		}
	}
}

func (v *SeedValidator) validateItems() {
	var items []state.ItemStack
	if !v.decodeSeed("items.json", &items) {
		return
	}

	seen := map[string]bool{}
	for _, item := range items {
		v.validateID("items.json item ID", item.ID)
		if seen[item.ID] {
			v.addError(fmt.Sprintf("items.json: duplicate item ID '%s'", item.ID))
		}
		seen[item.ID] = true

		if item.Name == "" {
			v.addError(fmt.Sprintf("items.json: item '%s' has no name", item.ID))
		}
		if !validCategories[item.Category] {
			v.addError(fmt.Sprintf("items.json: item '%s' has unknown category '%s'", item.ID, item.Category))
		}
	}
}

func (v *SeedValidator) validateQuests() {
	var quests []state.Quest
	if !v.decodeSeed("quests.json", &quests) {
		return
	}

	seen := map[string]bool{}
	for _, quest := range quests {
		v.validateID("quests.json quest ID", quest.ID)
		if seen[quest.ID] {
			v.addError(fmt.Sprintf("quests.json: duplicate quest ID '%s'", quest.ID))
		}
		seen[quest.ID] = true

		if quest.Title == "" {
			v.addError(fmt.Sprintf("quests.json: quest '%s' has no title", quest.ID))
		}
		if quest.Giver != "" {
			v.validateID("quests.json quest giver", quest.Giver)
		}
		for _, obj := range quest.Objectives {
			if obj.Target <= 0 {
				v.addError(fmt.Sprintf("quests.json: quest '%s' objective '%s' has non-positive target", quest.ID, obj.Description))
			}
		}
		for _, item := range quest.Rewards.Items {
			if !validCategories[item.Category] {
				v.addError(fmt.Sprintf("quests.json: quest '%s' reward item '%s' has unknown category '%s'", quest.ID, item.ID, item.Category))
			}
		}
	}
}

func (v *SeedValidator) validateCrises() {
	var crises []state.Crisis
	if !v.decodeSeed("crises.json", &crises) {
		return
	}

	seen := map[string]bool{}
	for _, crisis := range crises {
		v.validateID("crises.json crisis ID", crisis.ID)
		if seen[crisis.ID] {
			v.addError(fmt.Sprintf("crises.json: duplicate crisis ID '%s'", crisis.ID))
		}
		seen[crisis.ID] = true

		if crisis.Title == "" {
			v.addError(fmt.Sprintf("crises.json: crisis '%s' has no title", crisis.ID))
		}
		// Phase and start day are runtime state, not seed data.
		if crisis.Phase != "" {
			v.addError(fmt.Sprintf("crises.json: crisis '%s' sets phase '%s' in seed data", crisis.ID, crisis.Phase))
		}
		if crisis.StartDay != 0 {
			v.addError(fmt.Sprintf("crises.json: crisis '%s' sets start_day in seed data", crisis.ID))
		}
	}
}

func (v *SeedValidator) validateID(fieldName, id string) {
	if id == "" {
		v.addError(fmt.Sprintf("%s is empty", fieldName))
		return
	}
	if !validIDRegex.MatchString(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *SeedValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
