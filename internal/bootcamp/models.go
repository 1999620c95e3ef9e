package bootcamp

import (
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultPhoto is the photo of a bootcamp that never had one uploaded.
const DefaultPhoto = "no-photo.jpg"

// Careers lists the accepted values of Bootcamp.Careers.
var Careers = []string{"Web Development", "Mobile Development", "UI/UX", "Data Science", "Business", "Other"}

// Location is a GeoJSON point plus the geocoded address parts.
type Location struct {
	Type             string    `json:"type" bson:"type"`
	Coordinates      []float64 `json:"coordinates" bson:"coordinates"`
	FormattedAddress string    `json:"formattedAddress,omitempty" bson:"formattedAddress,omitempty"`
	Street           string    `json:"street,omitempty" bson:"street,omitempty"`
	City             string    `json:"city,omitempty" bson:"city,omitempty"`
	State            string    `json:"state,omitempty" bson:"state,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty" bson:"zipcode,omitempty"`
	Country          string    `json:"country,omitempty" bson:"country,omitempty"`
}

// Point returns a GeoJSON point; coordinates are [longitude, latitude].
func Point(lng, lat float64) *Location {
	return &Location{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lng and Lat read the point coordinates; both are 0 for an empty location.
func (l *Location) Lng() float64 {
	if l == nil || len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[0]
}

func (l *Location) Lat() float64 {
	if l == nil || len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[1]
}

type Bootcamp struct {
	ID            string    `json:"_id" bson:"_id"`
	User          string    `json:"user" bson:"user"`
	Name          string    `json:"name" bson:"name"`
	Slug          string    `json:"slug" bson:"slug"`
	Description   string    `json:"description" bson:"description"`
	Website       string    `json:"website,omitempty" bson:"website,omitempty"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	Location      *Location `json:"location,omitempty" bson:"location,omitempty"`
	Careers       []string  `json:"careers" bson:"careers"`
	AverageRating float64   `json:"averageRating,omitempty" bson:"averageRating,omitempty"`
	AverageCost   float64   `json:"averageCost,omitempty" bson:"averageCost,omitempty"`
	Photo         string    `json:"photo" bson:"photo"`
	Housing       bool      `json:"housing" bson:"housing"`
	JobAssistance bool      `json:"jobAssistance" bson:"jobAssistance"`
	JobGuarantee  bool      `json:"jobGuarantee" bson:"jobGuarantee"`
	AcceptGi      bool      `json:"acceptGi" bson:"acceptGi"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// Clone returns a deep copy so stores never hand out shared slices.
func (b *Bootcamp) Clone() *Bootcamp {
	if b == nil {
		return nil
	}
	out := *b
	out.Careers = append([]string(nil), b.Careers...)
	if b.Location != nil {
		loc := *b.Location
		loc.Coordinates = append([]float64(nil), b.Location.Coordinates...)
		out.Location = &loc
	}
	return &out
}

// Input is the create payload.
type Input struct {
	Name          string   `json:"name" validate:"required,max=50"`
	Description   string   `json:"description" validate:"required,max=500"`
	Website       string   `json:"website" validate:"omitempty,url"`
	Phone         string   `json:"phone" validate:"omitempty,max=20"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Address       string   `json:"address" validate:"required"`
	Careers       []string `json:"careers" validate:"required,min=1,dive,oneof='Web Development' 'Mobile Development' UI/UX 'Data Science' Business Other"`
	AverageRating float64  `json:"averageRating" validate:"omitempty,min=1,max=10"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

// Patch is the update payload; nil fields are left untouched. Owner, photo
// and averageCost are not part of it.
type Patch struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=50"`
	Description   *string  `json:"description" validate:"omitempty,min=1,max=500"`
	Website       *string  `json:"website" validate:"omitempty,url"`
	Phone         *string  `json:"phone" validate:"omitempty,max=20"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Address       *string  `json:"address" validate:"omitempty,min=1"`
	Careers       []string `json:"careers" validate:"omitempty,min=1,dive,oneof='Web Development' 'Mobile Development' UI/UX 'Data Science' Business Other"`
	AverageRating *float64 `json:"averageRating" validate:"omitempty,min=1,max=10"`
	Housing       *bool    `json:"housing"`
	JobAssistance *bool    `json:"jobAssistance"`
	JobGuarantee  *bool    `json:"jobGuarantee"`
	AcceptGi      *bool    `json:"acceptGi"`
}

// Set renders the present fields as a $set document. Address is resolved
// by the caller into a location.
func (p Patch) Set() bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
		set["slug"] = Slugify(*p.Name)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Website != nil {
		set["website"] = *p.Website
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Careers != nil {
		set["careers"] = p.Careers
	}
	if p.AverageRating != nil {
		set["averageRating"] = *p.AverageRating
	}
	if p.Housing != nil {
		set["housing"] = *p.Housing
	}
	if p.JobAssistance != nil {
		set["jobAssistance"] = *p.JobAssistance
	}
	if p.JobGuarantee != nil {
		set["jobGuarantee"] = *p.JobGuarantee
	}
	if p.AcceptGi != nil {
		set["acceptGi"] = *p.AcceptGi
	}
	return set
}

// Slugify lowercases name and joins its alphanumeric runs with "-".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
