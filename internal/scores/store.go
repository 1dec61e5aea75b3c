package scores

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/DoyleJ11/quizboard/internal/config"
)

// ErrScoreOutOfRange is returned by Add when the result would not fit in an int64.
var ErrScoreOutOfRange = errors.New("score out of range")

// Score is one row of the scores table.
type Score struct {
	Team  string `gorm:"column:team;type:text;primaryKey"`
	Score int    `gorm:"column:score;type:integer;not null;default:0"`
}

func (Score) TableName() string { return "scores" }

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open prepares the configured database without connecting, so an
// unreachable database surfaces as per-request errors instead of a failed
// start.
func Open(cfg config.Config, log *zap.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DBPath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	return New(db, log), nil
}

func New(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log.Named("scores")}
}

// Init creates the table and a zero row for every team that has none.
// Existing scores are left alone, so it is safe to run on every start.
func (s *Store) Init(ctx context.Context, teams []string) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&Score{}); err != nil {
		return fmt.Errorf("migrate scores: %w", err)
	}
	if len(teams) == 0 {
		return nil
	}

	rows := make([]Score, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, Score{Team: t, Score: 0})
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed scores: %w", err)
	}
	return nil
}

// InitOrLog runs Init and logs any failure instead of returning it.
func (s *Store) InitOrLog(ctx context.Context, teams []string) {
	if err := s.Init(ctx, teams); err != nil {
		s.log.Error("initializing score store", zap.Error(err), zap.Strings("teams", teams), zap.Stack("stack"))
		return
	}
	s.log.Info("score store ready", zap.Int("teams", len(teams)))
}

// All returns every stored score keyed by team.
func (s *Store) All(ctx context.Context) (map[string]int, error) {
	var rows []Score
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select scores: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Team] = r.Score
	}
	return out, nil
}

// Add applies a relative delta in a single statement. Unknown teams are a
// no-op; callers validate membership first. A delta that would push the
// score past the int64 range is refused with ErrScoreOutOfRange.
func (s *Store) Add(ctx context.Context, team string, points int) error {
	db := s.db.WithContext(ctx)
	q := db.Model(&Score{}).Where("team = ?", team)
	switch {
	case points > 0:
		q = q.Where("score <= ?", int64(math.MaxInt64-points))
	case points < 0:
		q = q.Where("score >= ?", int64(math.MinInt64-points))
	}

	res := q.Update("score", gorm.Expr("score + ?", points))
	if res.Error != nil {
		return fmt.Errorf("add %d to %q: %w", points, team, res.Error)
	}
	if res.RowsAffected > 0 || points == 0 {
		return nil
	}

	var n int64
	if err := db.Model(&Score{}).Where("team = ?", team).Count(&n).Error; err != nil {
		return fmt.Errorf("add %d to %q: %w", points, team, err)
	}
	if n > 0 {
		return fmt.Errorf("add %d to %q: %w", points, team, ErrScoreOutOfRange)
	}
	return nil
}

// Reset sets every score to zero in one bulk update.
func (s *Store) Reset(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(&Score{}).
		Update("score", 0).Error
	if err != nil {
		return fmt.Errorf("reset scores: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
