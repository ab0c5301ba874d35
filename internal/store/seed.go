package store

import "lilynotes-widgets/internal/model"

// Ids of the demo widget instances written by SeedPrefs.
const (
	SeedChecklistID = "demo-checklist"
	SeedHabitID     = "demo-habits"
	SeedProgressID  = "demo-progress"
)

// SeedPrefs returns one populated instance per widget kind, each registered
// as that kind's default.
func SeedPrefs() Map {
	return Map{
		model.DefaultKey(model.KindChecklist): SeedChecklistID,
		model.TitleKey(SeedChecklistID):       "Groceries",
		model.DataKey(SeedChecklistID): `[{"text":"Milk","checked":true},{"text":"Eggs","checked":false},` +
			`{"text":"Bread","checked":false},{"text":"Coffee","checked":true}]`,

		model.DefaultKey(model.KindHabit): SeedHabitID,
		model.TitleKey(SeedHabitID):       "Daily habits",
		model.DataKey(SeedHabitID): `[{"id":"h-read","name":"Read 20 pages","done":true,"streak":4,"color":4283215696},` +
			`{"id":"h-walk","name":"Walk","done":false,"streak":0,"color":4294940672},` +
			`{"id":"h-water","name":"Drink water","done":false,"streak":12}]`,

		model.DefaultKey(model.KindProgress): SeedProgressID,
		model.TitleKey(SeedProgressID):       "Chapters written",
		model.DataKey(SeedProgressID):        `{"current":7,"target":10,"percent":70}`,
	}
}
