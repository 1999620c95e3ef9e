package course

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type Course struct {
	ID                   string    `json:"_id" bson:"_id"`
	User                 string    `json:"user" bson:"user"`
	Bootcamp             string    `json:"bootcamp" bson:"bootcamp"`
	Title                string    `json:"title" bson:"title"`
	Description          string    `json:"description" bson:"description"`
	Weeks                string    `json:"weeks" bson:"weeks"`
	Tuition              float64   `json:"tuition" bson:"tuition"`
	MinimumSkill         string    `json:"minimumSkill" bson:"minimumSkill"`
	ScholarshipAvailable bool      `json:"scholarshipAvailable" bson:"scholarshipAvailable"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
}

func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// Input is the create payload. Tuition is a pointer so a missing value is
// told apart from a free course.
type Input struct {
	Title                string   `json:"title" validate:"required"`
	Description          string   `json:"description" validate:"required"`
	Weeks                string   `json:"weeks" validate:"required"`
	Tuition              *float64 `json:"tuition" validate:"required,min=0"`
	MinimumSkill         string   `json:"minimumSkill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool     `json:"scholarshipAvailable"`
}

type Patch struct {
	Title                *string  `json:"title" validate:"omitempty,min=1"`
	Description          *string  `json:"description" validate:"omitempty,min=1"`
	Weeks                *string  `json:"weeks" validate:"omitempty,min=1"`
	Tuition              *float64 `json:"tuition" validate:"omitempty,min=0"`
	MinimumSkill         *string  `json:"minimumSkill" validate:"omitempty,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

func (p Patch) Set() bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Weeks != nil {
		set["weeks"] = *p.Weeks
	}
	if p.Tuition != nil {
		set["tuition"] = *p.Tuition
	}
	if p.MinimumSkill != nil {
		set["minimumSkill"] = *p.MinimumSkill
	}
	if p.ScholarshipAvailable != nil {
		set["scholarshipAvailable"] = *p.ScholarshipAvailable
	}
	return set
}

// AverageCost rounds an average tuition up to the next multiple of ten.
func AverageCost(avg float64) float64 {
	return math.Ceil(avg/10) * 10
}
