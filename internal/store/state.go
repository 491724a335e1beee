package store

import "time"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "Sedentary"
	ActivityLightlyActive    ActivityLevel = "Lightly Active"
	ActivityModeratelyActive ActivityLevel = "Moderately Active"
	ActivityVeryActive       ActivityLevel = "Very Active"
	ActivitySuperActive      ActivityLevel = "Super Active"
)

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

type UserProfile struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender"`
	Height        float64       `json:"height"` // in cm
	Weight        float64       `json:"weight"` // in kg
	ActivityLevel ActivityLevel `json:"activityLevel"`
}

type MealLog struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"` // ISO date string YYYY-MM-DD
	Name     string   `json:"name"`
	Calories int      `json:"calories"`
	Type     MealType `json:"type"`
	Time     string   `json:"time"` // HH:MM, 24h
}

type WorkoutLog struct {
	ID              string `json:"id"`
	Date            string `json:"date"` // ISO date string YYYY-MM-DD
	Type            string `json:"type"`
	DurationMinutes int    `json:"durationMinutes"`
	CaloriesBurned  int    `json:"caloriesBurned"`
}

type ForumPost struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	CreatedAt int64  `json:"createdAt"` // millis since epoch
	// Likes is reserved for a future like-post operation, nothing mutates it yet
	Likes int `json:"likes"`
}

// AppState is the full application snapshot. Mutations never change it in
// place, they replace the whole value through the Store.
type AppState struct {
	User            *UserProfile `json:"user"`
	Meals           []MealLog    `json:"meals"`
	Workouts        []WorkoutLog `json:"workouts"`
	Posts           []ForumPost  `json:"posts"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// SeedState is the fixed initial snapshot, used only when no durable
// record exists (or the existing one cannot be parsed).
func SeedState() AppState {
	now := time.Now().UnixMilli()
	return AppState{
		User:     nil,
		Meals:    []MealLog{},
		Workouts: []WorkoutLog{},
		Posts: []ForumPost{
			{
				ID:        "1",
				Title:     "Best time to do cardio?",
				Content:   "I was wondering if I should do cardio before or after weights?",
				Author:    "GymRat99",
				Category:  "Workout",
				CreatedAt: now - 10000000,
				Likes:     5,
			},
			{
				ID:        "2",
				Title:     "Healthy snack ideas",
				Content:   "Looking for low calorie snack ideas for late night cravings.",
				Author:    "HealthyLiving",
				Category:  "Diet",
				CreatedAt: now - 5000000,
				Likes:     12,
			},
		},
		IsAuthenticated: false,
	}
}

// Clone returns a deep copy of the snapshot, safe to hand out to readers
func (s AppState) Clone() AppState {
	cloned := AppState{
		Meals:           make([]MealLog, len(s.Meals)),
		Workouts:        make([]WorkoutLog, len(s.Workouts)),
		Posts:           make([]ForumPost, len(s.Posts)),
		IsAuthenticated: s.IsAuthenticated,
	}
	copy(cloned.Meals, s.Meals)
	copy(cloned.Workouts, s.Workouts)
	copy(cloned.Posts, s.Posts)
	if s.User != nil {
		user := *s.User
		cloned.User = &user
	}
	return cloned
}
