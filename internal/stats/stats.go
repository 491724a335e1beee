package stats

import (
	"math"
	"time"

	"github.com/fitlife-app/fitlife/internal/store"
)

// display fallbacks for when no user is logged in, never persisted
const (
	defaultHeightCm = 170.0
	defaultWeightKg = 70.0
)

const dateLayout = "2006-01-02"

type BMICategory string

const (
	CategoryUnderweight BMICategory = "Underweight"
	CategoryNormal      BMICategory = "Normal"
	CategoryOverweight  BMICategory = "Overweight"
	CategoryObese       BMICategory = "Obese"
)

// BMI returns weight_kg / (height_cm/100)^2
func BMI(weightKg, heightCm float64) float64 {
	heightMeters := heightCm / 100
	return weightKg / (heightMeters * heightMeters)
}

// CategoryForBMI classifies a BMI value. The Overweight band is [25, 30):
// the upstream thresholds left 29.9..30 unclassified, here the band is closed.
func CategoryForBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return CategoryUnderweight
	case bmi < 25:
		return CategoryNormal
	case bmi < 30:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// ProfileBMI computes BMI and category for the given user, falling back to
// fixed display defaults (170 cm, 70 kg) when no user is present
func ProfileBMI(user *store.UserProfile) (float64, BMICategory) {
	heightCm := defaultHeightCm
	weightKg := defaultWeightKg
	if user != nil {
		if user.Height > 0 {
			heightCm = user.Height
		}
		if user.Weight > 0 {
			weightKg = user.Weight
		}
	}
	bmi := BMI(weightKg, heightCm)
	return bmi, CategoryForBMI(bmi)
}

// DailyBalance holds the calorie aggregates for a single calendar date
type DailyBalance struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Consumed int    `json:"consumed"`
	Burned   int    `json:"burned"`
}

// BalanceForDate sums meal calories and workout calories burned for the
// given date. A date with no entries aggregates to zero, not to "absent".
func BalanceForDate(state store.AppState, date string) DailyBalance {
	balance := DailyBalance{Date: date}
	for _, m := range state.Meals {
		if m.Date == date {
			balance.Consumed += m.Calories
		}
	}
	for _, w := range state.Workouts {
		if w.Date == date {
			balance.Burned += w.CaloriesBurned
		}
	}
	return balance
}

// WeeklySeries returns the balances for the 7 calendar dates ending with
// today (inclusive), oldest first, regardless of how much history exists
func WeeklySeries(state store.AppState, today time.Time) []DailyBalance {
	series := make([]DailyBalance, 0, 7)
	for i := 6; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(dateLayout)
		series = append(series, BalanceForDate(state, date))
	}
	return series
}

// WeeklyAverages are the per-day averages over a weekly series,
// rounded for display
type WeeklyAverages struct {
	Consumed int `json:"consumed"`
	Burned   int `json:"burned"`
}

func Averages(series []DailyBalance) WeeklyAverages {
	if len(series) == 0 {
		return WeeklyAverages{}
	}
	var consumed, burned int
	for _, day := range series {
		consumed += day.Consumed
		burned += day.Burned
	}
	days := float64(len(series))
	return WeeklyAverages{
		Consumed: int(math.Round(float64(consumed) / days)),
		Burned:   int(math.Round(float64(burned) / days)),
	}
}

// Summary is the daily health overview shown on the dashboard
type Summary struct {
	Date             string      `json:"date"`
	CaloriesConsumed int         `json:"caloriesConsumed"`
	CaloriesBurned   int         `json:"caloriesBurned"`
	MealsToday       int         `json:"mealsToday"`
	WorkoutsToday    int         `json:"workoutsToday"`
	BMI              float64     `json:"bmi"`
	BMICategory      BMICategory `json:"bmiCategory"`
}

func DashboardSummary(state store.AppState, today time.Time) Summary {
	date := today.Format(dateLayout)
	balance := BalanceForDate(state, date)

	var mealsToday, workoutsToday int
	for _, m := range state.Meals {
		if m.Date == date {
			mealsToday++
		}
	}
	for _, w := range state.Workouts {
		if w.Date == date {
			workoutsToday++
		}
	}

	bmi, category := ProfileBMI(state.User)

	return Summary{
		Date:             date,
		CaloriesConsumed: balance.Consumed,
		CaloriesBurned:   balance.Burned,
		MealsToday:       mealsToday,
		WorkoutsToday:    workoutsToday,
		BMI:              math.Round(bmi*10) / 10,
		BMICategory:      category,
	}
}
