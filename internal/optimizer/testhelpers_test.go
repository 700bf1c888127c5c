package optimizer

import "github.com/guimove/loadoutfit/internal/model"

func damageMod(id string, price, damage, rof, cpu float64) model.CatalogItem {
	return model.CatalogItem{
		ID:       id,
		Name:     id,
		Price:    price,
		Costs:    map[string]float64{"cpu": cpu},
		Benefits: map[string]float64{ParamDamage: damage, ParamRate: rof},
	}
}

func implant(id string, price, bonus, setBonus, setMult float64) model.CatalogItem {
	b := map[string]float64{ParamBonus: bonus}
	if setBonus != 0 {
		b[ParamSetBonus] = setBonus
	}
	if setMult != 0 {
		b[ParamSetMultiplier] = setMult
	}
	return model.CatalogItem{ID: id, Name: id, Price: price, Benefits: b}
}

func ids(items []model.CatalogItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func fullUptime() BenefitModel {
	return &StackingModel{Uptime: 1}
}
