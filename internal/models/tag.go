package models

// Tag is read-only catalog data used to categorize recipes
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:200;not null" json:"name" yaml:"name" validate:"required,max=200"`
	Color string `gorm:"size:7;not null" json:"color" yaml:"color" validate:"required,hexcolor"`
	Slug  string `gorm:"size:200;not null;uniqueIndex" json:"slug" yaml:"slug" validate:"required,max=200"`
}

func (Tag) TableName() string {
	return "tags"
}
