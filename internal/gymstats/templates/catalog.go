package templates

import "github.com/2beens/fitnesstracker/internal/gymstats/exercises"

type catalogExercise struct {
	name   string
	weight float64
	reps   int
	sets   int
	rpe    int
}

type catalogEntry struct {
	workoutType string
	name        string
	description string
	exercises   []catalogExercise
}

// starter programmes, one per workout type
var catalog = []catalogEntry{
	{
		workoutType: "A",
		name:        "Full Body Strength + HIIT",
		description: "Warm-up, Strength training, HIIT Finisher",
		exercises: []catalogExercise{
			{"Warm-up: 5 min (rowing machine or cross-trainer)", 0, 1, 1, 3},
			{"Chest Press Machine: 3×8-12 (2 min rest)", 10, 10, 3, 5},
			{"Lat Pulldown: 3×8-12 (2 min rest)", 10, 10, 3, 5},
			{"Shoulder Press Machine: 3×10-15 (90 sec rest)", 10, 12, 3, 5},
			{"Seated Row: 3×10-15 (90 sec rest)", 10, 12, 3, 5},
			{"Bicep Curls: 2×12-15 (60 sec rest)", 10, 15, 2, 5},
			{"Triceps Pushdown: 2×12-15 (60 sec rest)", 10, 15, 2, 5},
			{"HIIT Finisher: 5 min - 30 sec sprint / 30 sec walk", 0, 5, 1, 8},
		},
	},
	{
		workoutType: "B",
		name:        "Leg Day + Cardio",
		description: "Warm-up, Leg exercises, Steady Cardio",
		exercises: []catalogExercise{
			{"Warm-up: 5 min (cycling)", 0, 1, 1, 3},
			{"Leg Press: 3×8-12 (2 min rest)", 10, 10, 3, 5},
			{"Leg Curl: 3×10-15 (90 sec rest)", 10, 12, 3, 5},
			{"Leg Extension: 3×10-15 (90 sec rest)", 10, 12, 3, 5},
			{"Calf Raises: 3×15-20 (60 sec rest)", 10, 18, 3, 5},
			{"Glute Machine: 2×12-15 (60 sec rest)", 10, 15, 2, 5},
			{"Steady Cardio: 10 min - Cross-trainer 70%", 0, 1, 1, 6},
		},
	},
	{
		workoutType: "C",
		name:        "Circuit Training",
		description: "Circuit format (3 rounds, minimal rest between exercises)",
		exercises: []catalogExercise{
			{"Kettlebell Swings: 45 sec / 15 sec rest", 10, 15, 3, 5},
			{"Push-ups (or Chest Press): 45 sec / 15 sec", 10, 15, 3, 5},
			{"Bodyweight Squats: 45 sec / 15 sec rest", 0, 15, 3, 5},
			{"Dumbbell Rows: 45 sec / 15 sec", 10, 15, 3, 5},
			{"Plank: 45 sec / 15 sec rest", 0, 1, 3, 5},
		},
	},
	{
		workoutType: "D",
		name:        "Cardio Variation",
		description: "Choose different cardio each week",
		exercises: []catalogExercise{
			{"Week 1: Incline treadmill walk", 0, 1, 1, 5},
			{"Week 2: Cycling intervals", 0, 1, 1, 5},
			{"Week 3: Rowing intervals", 0, 1, 1, 5},
			{"Week 4: Stair machine", 0, 1, 1, 5},
			{"Heart rate zone 2 (60-70% max)", 0, 1, 1, 5},
		},
	},
}

// Catalog returns fresh copies of the built-in templates.
func Catalog() []NewTemplate {
	out := make([]NewTemplate, 0, len(catalog))
	for _, entry := range catalog {
		list := make([]exercises.Exercise, 0, len(entry.exercises))
		for _, ce := range entry.exercises {
			weight, reps, sets := ce.weight, ce.reps, ce.sets
			list = append(list, exercises.Exercise{
				Name:   ce.name,
				Type:   exercises.TypeWeight,
				Weight: &weight,
				Reps:   &reps,
				Sets:   &sets,
				RPE:    ce.rpe,
			})
		}
		out = append(out, NewTemplate{
			WorkoutType: entry.workoutType,
			Name:        entry.name,
			Description: entry.description,
			Exercises:   list,
		})
	}
	return out
}
