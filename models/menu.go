package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuCategories is the fixed category enum.
var MenuCategories = []string{"Starters", "Main Course", "Desserts", "Beverages"}

func IsValidCategory(category string) bool {
	for _, c := range MenuCategories {
		if c == category {
			return true
		}
	}
	return false
}

const MaxMenuItemPrice = 10000

type MenuItem struct {
	MongoID     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Category    string             `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	Img         string             `json:"img" bson:"img"`
	Veg         *bool              `json:"veg" bson:"veg"`
	Spicy       bool               `json:"spicy" bson:"spicy"`
	Popular     bool               `json:"popular" bson:"popular"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Available   bool               `json:"available" bson:"available"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
