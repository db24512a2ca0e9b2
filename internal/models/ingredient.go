package models

// Ingredient is read-only catalog data
type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:200;not null;uniqueIndex:idx_ingredients_name_unit" json:"name" yaml:"name" validate:"required,max=200"`
	MeasurementUnit string `gorm:"size:50;not null;uniqueIndex:idx_ingredients_name_unit" json:"measurement_unit" yaml:"measurement_unit" validate:"required,max=50"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
