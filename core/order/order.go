package order

import "time"

// Order is a snapshot of a cart taken at checkout; it is never updated.
type Order struct {
	ID      string    `json:"id" bson:"_id"`
	User    Owner     `json:"user" bson:"user"`
	Courses []Line    `json:"courses" bson:"courses"`
	Date    time.Time `json:"date" bson:"date"`
}

type Owner struct {
	UserID string `json:"userId" bson:"userId"`
	Name   string `json:"name" bson:"name"`
}

type Line struct {
	Course Snapshot `json:"course" bson:"course"`
	Count  int      `json:"count" bson:"count"`
}

type Snapshot struct {
	ID       string  `json:"id" bson:"id"`
	Title    string  `json:"title" bson:"title"`
	Price    float64 `json:"price" bson:"price"`
	ImageURL string  `json:"img" bson:"img"`
}

func (o Order) Price() float64 {
	var tot float64
	for _, l := range o.Courses {
		tot += l.Course.Price * float64(l.Count)
	}
	return tot
}
