package domain

import (
	"fmt"
	"sort"
	"time"

	sharedDomain "github.com/felixgeelhaar/cmas/internal/shared/domain"
	"github.com/google/uuid"
)

// TaskScore is the recorded contribution of one task. MaxPoints is a
// snapshot of the task's maximum at scoring time, so later catalog edits
// cannot distort an already-recorded session.
type TaskScore struct {
	TaskID     int
	Score      int
	MaxPoints  int
	RecordedAt time.Time
}

// Session is the per-patient aggregate of task scores for one assessment
// run. It keeps at most one score per task and maintains the running total
// incrementally; the maintained total always equals the resummation of the
// score map.
type Session struct {
	sharedDomain.BaseAggregateRoot
	username    string
	scores      map[int]TaskScore
	totalScore  int
	lastUpdated time.Time
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		scores:            make(map[int]TaskScore),
	}
}

// RehydrateSession rebuilds a session from persisted state. The persisted
// total must match the resummation of the scores; a mismatch means the
// record is corrupt and the caller should fall back to an empty session.
func RehydrateSession(id uuid.UUID, username string, scores []TaskScore, totalScore int, lastUpdated, createdAt, updatedAt time.Time) (*Session, error) {
	byTask := make(map[int]TaskScore, len(scores))
	sum := 0
	for _, s := range scores {
		if s.TaskID < 0 || s.Score < 0 {
			return nil, fmt.Errorf("task %d score %d: %w", s.TaskID, s.Score, ErrValidation)
		}
		if _, dup := byTask[s.TaskID]; dup {
			return nil, fmt.Errorf("duplicate score for task %d: %w", s.TaskID, ErrValidation)
		}
		byTask[s.TaskID] = s
		sum += s.Score
	}
	if sum != totalScore {
		return nil, fmt.Errorf("total %d does not match score sum %d: %w", totalScore, sum, ErrValidation)
	}
	return &Session{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		username:          username,
		scores:            byTask,
		totalScore:        totalScore,
		lastUpdated:       lastUpdated,
	}, nil
}

// SetScore upserts the score for a task. Re-scoring overwrites, never
// appends; the total moves by the difference between the new and previous
// score. RecordedAt never goes backwards for a task across overwrites.
func (s *Session) SetScore(taskID, score, maxPoints int) (TaskScore, error) {
	if taskID < 0 {
		return TaskScore{}, fmt.Errorf("task id %d: %w", taskID, ErrTaskNotFound)
	}
	if score < 0 {
		return TaskScore{}, fmt.Errorf("score %d: %w", score, ErrValidation)
	}

	now := time.Now().UTC()
	prev, had := s.scores[taskID]
	if had {
		if maxPoints == 0 {
			maxPoints = prev.MaxPoints
		}
		if now.Before(prev.RecordedAt) {
			now = prev.RecordedAt
		}
	}

	recorded := TaskScore{
		TaskID:     taskID,
		Score:      score,
		MaxPoints:  maxPoints,
		RecordedAt: now,
	}
	s.scores[taskID] = recorded
	s.totalScore += score - prev.Score // prev.Score is 0 when !had
	s.lastUpdated = now
	s.Touch()
	s.AddDomainEvent(NewScoreRecorded(s, recorded))
	return recorded, nil
}

// Clear empties the score map and resets the total. The username survives;
// clearing scores is distinct from clearing identity.
func (s *Session) Clear() {
	s.scores = make(map[int]TaskScore)
	s.totalScore = 0
	s.lastUpdated = time.Now().UTC()
	s.Touch()
	s.AddDomainEvent(NewSessionCleared(s))
}

// SetUsername updates the patient identity independent of scoring.
func (s *Session) SetUsername(name string) {
	s.username = name
	s.Touch()
}

// Username returns the patient identity string.
func (s *Session) Username() string { return s.username }

// Total returns the maintained aggregate score.
func (s *Session) Total() int { return s.totalScore }

// LastUpdated returns the time of the most recent mutation.
func (s *Session) LastUpdated() time.Time { return s.lastUpdated }

// Score returns the recorded score for a task, if any.
func (s *Session) Score(taskID int) (TaskScore, bool) {
	ts, ok := s.scores[taskID]
	return ts, ok
}

// Scores returns all recorded scores ordered by task id ascending.
func (s *Session) Scores() []TaskScore {
	out := make([]TaskScore, 0, len(s.scores))
	for _, ts := range s.scores {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}

// Attempted returns the number of tasks with a recorded score.
func (s *Session) Attempted() int { return len(s.scores) }

// Resum recomputes the total from the score map. It exists to verify the
// maintained total and always equals Total for a well-formed session.
func (s *Session) Resum() int {
	sum := 0
	for _, ts := range s.scores {
		sum += ts.Score
	}
	return sum
}
