package core

import (
	"fmt"

	"github.com/huangsam/hormetric/schema"
)

// rangeKey addresses the range table. Sex is Unspecified for hormones that
// do not depend on it.
type rangeKey struct {
	hormone schema.HormoneType
	sex     schema.BiologicalSex
}

// sexDependent lists hormones whose range differs by biological sex.
var sexDependent = map[schema.HormoneType]bool{
	schema.Testosterone: true,
}

// rangeTable holds the registered reference data. A hormone is supported
// only if it has an entry here.
var rangeTable = map[rangeKey]schema.HormoneRange{
	{schema.Cortisol, schema.Unspecified}: {
		HormoneType: schema.Cortisol, OptimalMin: 10, OptimalMax: 20, Unit: "ug/dL",
		AgeNorms: []schema.AgeNorm{
			{MinAge: 18, MaxAge: 29, Mean: 13, Low: 8, High: 20},
			{MinAge: 30, MaxAge: 39, Mean: 13.5, Low: 8, High: 20.5},
			{MinAge: 40, MaxAge: 49, Mean: 14, Low: 8.5, High: 21},
			{MinAge: 50, MaxAge: 59, Mean: 14.5, Low: 9, High: 22},
			{MinAge: 60, Mean: 15, Low: 9, High: 23},
		},
	},
	{schema.Testosterone, schema.Male}: {
		HormoneType: schema.Testosterone, OptimalMin: 300, OptimalMax: 1000, Unit: "ng/dL",
		AgeNorms: []schema.AgeNorm{
			{MinAge: 18, MaxAge: 29, Mean: 650, Low: 350, High: 1000},
			{MinAge: 30, MaxAge: 39, Mean: 600, Low: 320, High: 950},
			{MinAge: 40, MaxAge: 49, Mean: 550, Low: 300, High: 880},
			{MinAge: 50, MaxAge: 59, Mean: 500, Low: 270, High: 820},
			{MinAge: 60, Mean: 450, Low: 240, High: 760},
		},
	},
	{schema.Testosterone, schema.Female}: {
		HormoneType: schema.Testosterone, OptimalMin: 15, OptimalMax: 70, Unit: "ng/dL",
		AgeNorms: []schema.AgeNorm{
			{MinAge: 18, MaxAge: 29, Mean: 45, Low: 15, High: 70},
			{MinAge: 30, MaxAge: 39, Mean: 40, Low: 13, High: 65},
			{MinAge: 40, MaxAge: 49, Mean: 35, Low: 12, High: 60},
			{MinAge: 50, MaxAge: 59, Mean: 30, Low: 10, High: 55},
			{MinAge: 60, Mean: 25, Low: 8, High: 50},
		},
	},
	{schema.DHEA, schema.Unspecified}: {
		HormoneType: schema.DHEA, OptimalMin: 100, OptimalMax: 400, Unit: "ug/dL",
		AgeNorms: []schema.AgeNorm{
			{MinAge: 18, MaxAge: 29, Mean: 350, Low: 150, High: 550},
			{MinAge: 30, MaxAge: 39, Mean: 270, Low: 110, High: 450},
			{MinAge: 40, MaxAge: 49, Mean: 200, Low: 80, High: 350},
			{MinAge: 50, MaxAge: 59, Mean: 150, Low: 55, High: 280},
			{MinAge: 60, Mean: 100, Low: 30, High: 200},
		},
	},
}

// supportedHormones is the scoring order used by every engine.
var supportedHormones = []schema.HormoneType{schema.Cortisol, schema.Testosterone, schema.DHEA}

// SupportedHormones returns the registered hormone types in stable order.
func SupportedHormones() []schema.HormoneType {
	out := make([]schema.HormoneType, len(supportedHormones))
	copy(out, supportedHormones)
	return out
}

// RangeFor returns the reference range of a hormone. Testosterone depends on
// sex; an unspecified sex uses the male table.
func RangeFor(hormone schema.HormoneType, sex schema.BiologicalSex) (schema.HormoneRange, error) {
	key := rangeKey{hormone: hormone}
	if sexDependent[hormone] {
		key.sex = schema.Male
		if sex == schema.Female {
			key.sex = schema.Female
		}
	}
	r, ok := rangeTable[key]
	if !ok {
		return schema.HormoneRange{}, &schema.ValidationError{
			Field: "hormone_type",
			Value: hormone,
			Err:   fmt.Errorf("%w: no range registered", schema.ErrUnknownHormoneType),
		}
	}
	return r, nil
}
