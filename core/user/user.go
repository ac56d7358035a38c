package user

import "time"

type User struct {
	ID        string     `json:"id" bson:"_id"`
	Email     string     `json:"email" bson:"email"`
	Name      string     `json:"name" bson:"name"`
	Password  []byte     `json:"-" bson:"password"`
	AvatarURL string     `json:"avatarUrl" bson:"avatarUrl"`
	Cart      []CartItem `json:"cart" bson:"cart"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

type CartItem struct {
	CourseID string `json:"courseId" bson:"courseId"`
	Count    int    `json:"count" bson:"count"`
}

type ProfileUp struct {
	Name string `form:"name" validate:"min=3"`
}
