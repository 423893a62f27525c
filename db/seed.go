package db

import (
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"gorm.io/gorm/clause"
)

// BadgeCatalog is the static achievement catalog. Codes are what the badge
// evaluators award against; changing a code orphans already-earned rows.
var BadgeCatalog = []models.Badge{
	{Code: "STEP_5K", Name: "First Strides", Description: "Walk 5,000 steps in a single day", Category: "steps", Icon: "👟"},
	{Code: "STEP_10K", Name: "Daily Ten", Description: "Walk 10,000 steps in a single day", Category: "steps", Icon: "🚶"},
	{Code: "STEP_20K", Name: "Step Machine", Description: "Walk 20,000 steps in a single day", Category: "steps", Icon: "🏃"},
	{Code: "MINUTES_150", Name: "Active Day", Description: "Log 150 active minutes in a single day", Category: "minutes", Icon: "⏱️"},
	{Code: "CAL_500", Name: "Calorie Burner", Description: "Burn 500 calories in a single day", Category: "calories", Icon: "🔥"},
	{Code: "CAL_1000", Name: "Furnace", Description: "Burn 1,000 calories in a single day", Category: "calories", Icon: "🌋"},
	{Code: "CO2_1KG", Name: "First Kilo", Description: "Save 1 kg of CO₂ through human-powered travel", Category: "carbon", Icon: "🌱"},
	{Code: "CO2_25KG", Name: "Carbon Cutter", Description: "Save 25 kg of CO₂ through human-powered travel", Category: "carbon", Icon: "🌿"},
	{Code: "CO2_50KG", Name: "Climate Champion", Description: "Save 50 kg of CO₂ through human-powered travel", Category: "carbon", Icon: "🌳"},
	{Code: "DIST_MARATHON", Name: "Marathon", Description: "Cover 42.2 km under your own power", Category: "distance", Icon: "🎽"},
	{Code: "DIST_ANNAPURNA", Name: "Annapurna Circuit", Description: "Cover 160 km under your own power", Category: "distance", Icon: "🏔️"},
	{Code: "DIST_GRANDCANYON", Name: "Grand Canyon", Description: "Cover 446 km under your own power", Category: "distance", Icon: "🏜️"},
	{Code: "DIST_CAMINO", Name: "Camino de Santiago", Description: "Cover 800 km under your own power", Category: "distance", Icon: "⛪"},
	{Code: "DIST_APPALACHIAN", Name: "Appalachian Trail", Description: "Cover 3,500 km under your own power", Category: "distance", Icon: "🌲"},
	{Code: "DIST_PCT", Name: "Pacific Crest Trail", Description: "Cover 4,265 km under your own power", Category: "distance", Icon: "🗻"},
	{Code: "DIST_GREATWALL", Name: "Great Wall", Description: "Cover 8,850 km under your own power", Category: "distance", Icon: "🏯"},
}

// SeedBadges inserts any catalog entries missing from the badges table.
// Existing rows are left untouched so earned badges keep their ids.
func SeedBadges() error {
	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&BadgeCatalog).Error
}
