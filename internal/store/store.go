package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	"github.com/fitlife-app/fitlife/pkg"

	log "github.com/sirupsen/logrus"
)

// snapshotFileName is the fixed, versioned name of the durable record.
// The whole AppState is serialized into it, wholesale, on every mutation.
const snapshotFileName = "fitlife_app_data_v1.json"

// Store is the sole owner of the AppState snapshot. It is constructed once
// at process start and injected into every consumer. Each mutation replaces
// the in-memory snapshot and persists it before returning.
type Store struct {
	dataDir string
	mutex   sync.RWMutex
	state   AppState
	idSeq   uint64
}

func New(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, errors.New("data dir cannot be empty")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		dataDir: dataDir,
	}

	state, err := s.loadSnapshot()
	if err != nil {
		// a broken or half-written record must never take the whole app
		// down, fall back to the seed and keep the diagnostics in the logs
		log.Errorf("load snapshot failed, falling back to seed state: %s", err)
		state = SeedState()
	}
	s.state = state

	if err := s.persist(); err != nil {
		return nil, fmt.Errorf("persist initial snapshot: %w", err)
	}

	return s, nil
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() AppState {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.state.Clone()
}

func (s *Store) Login(profile UserProfile) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := s.state.Clone()
	next.User = &profile
	next.IsAuthenticated = true
	s.commit(next)
}

// Logout clears the user, meals/workouts/posts stay untouched
func (s *Store) Logout() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := s.state.Clone()
	next.User = nil
	next.IsAuthenticated = false
	s.commit(next)
}

// UpdateProfile replaces the user wholesale. The no-op guard for the
// unauthenticated case is the caller's responsibility, the store accepts
// whatever it is given.
func (s *Store) UpdateProfile(profile UserProfile) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := s.state.Clone()
	next.User = &profile
	s.commit(next)
}

// AddMeal stores a new meal at the head of the meals collection.
// Any id set by the caller is ignored, a fresh one is assigned.
func (s *Store) AddMeal(meal MealLog) MealLog {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	meal.ID = s.nextID()
	next := s.state.Clone()
	next.Meals = append([]MealLog{meal}, next.Meals...)
	s.commit(next)
	return meal
}

// DeleteMeal removes the meal with the given id, it is a no-op
// (and returns false) when no meal matches
func (s *Store) DeleteMeal(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := s.state.Clone()
	meals := make([]MealLog, 0, len(next.Meals))
	found := false
	for _, m := range next.Meals {
		if m.ID == id {
			found = true
			continue
		}
		meals = append(meals, m)
	}
	if !found {
		return false
	}
	next.Meals = meals
	s.commit(next)
	return true
}

func (s *Store) AddWorkout(workout WorkoutLog) WorkoutLog {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	workout.ID = s.nextID()
	next := s.state.Clone()
	next.Workouts = append([]WorkoutLog{workout}, next.Workouts...)
	s.commit(next)
	return workout
}

func (s *Store) DeleteWorkout(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	next := s.state.Clone()
	workouts := make([]WorkoutLog, 0, len(next.Workouts))
	found := false
	for _, w := range next.Workouts {
		if w.ID == id {
			found = true
			continue
		}
		workouts = append(workouts, w)
	}
	if !found {
		return false
	}
	next.Workouts = workouts
	s.commit(next)
	return true
}

// AddPost stores a new forum post at the head of the posts collection,
// with a fresh id, current timestamp and zero likes
func (s *Store) AddPost(post ForumPost) ForumPost {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	post.ID = s.nextID()
	post.CreatedAt = time.Now().UnixMilli()
	post.Likes = 0

	next := s.state.Clone()
	next.Posts = append([]ForumPost{post}, next.Posts...)
	s.commit(next)
	return post
}

// commit swaps in the new snapshot and writes it to disk, callers must
// hold the write lock. A failed write is logged, not propagated: the
// in-memory state is the source of truth and nothing here is fatal.
func (s *Store) commit(next AppState) {
	s.state = next
	if err := s.persist(); err != nil {
		log.Errorf("persist snapshot: %s", err)
	}
}

// nextID combines wall-clock millis with a monotonic sequence so that two
// entries created within the same clock tick still get distinct ids
func (s *Store) nextID() string {
	s.idSeq++
	return fmt.Sprintf("%d-%d", time.Now().UnixMilli(), s.idSeq)
}

func (s *Store) snapshotPath() string {
	return path.Join(s.dataDir, snapshotFileName)
}

func (s *Store) loadSnapshot() (AppState, error) {
	snapshotPath := s.snapshotPath()

	exists, err := pkg.PathExists(snapshotPath, false)
	if err != nil {
		return AppState{}, fmt.Errorf("check snapshot file [%s]: %w", snapshotPath, err)
	}
	if !exists {
		log.Debugf("snapshot file [%s] does not exist, starting from seed state", snapshotPath)
		return SeedState(), nil
	}

	snapshotJson, err := os.ReadFile(snapshotPath)
	if err != nil {
		return AppState{}, fmt.Errorf("read snapshot file: %w", err)
	}

	// unknown fields in the record are deliberately ignored (forward compatibility)
	var state AppState
	if err := json.Unmarshal(snapshotJson, &state); err != nil {
		return AppState{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	if state.Meals == nil {
		state.Meals = []MealLog{}
	}
	if state.Workouts == nil {
		state.Workouts = []WorkoutLog{}
	}
	if state.Posts == nil {
		state.Posts = []ForumPost{}
	}

	log.Debugf("snapshot loaded from: %s", snapshotPath)

	return state, nil
}

func (s *Store) persist() error {
	stateJson, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(s.snapshotPath(), stateJson, 0o644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	return nil
}
