package storage

import (
	"mome/internal/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const batchSize = 100

type SqliteStorage struct {
	db *gorm.DB
}

func NewSqliteStorage(path string) (*SqliteStorage, error) {
	logger.Debug("initializing database...", zap.String("path", path))

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "storage: cannot open %s", path)
	}

	err = db.AutoMigrate(
		&TransactionRecord{},
		&BalanceSnapshot{},
	)
	if err != nil {
		return nil, errors.Wrap(err, "storage: migration failed")
	}

	logger.Debug("initializing database... done")
	return &SqliteStorage{
		db: db,
	}, nil
}

func (s *SqliteStorage) SaveTransaction(record *TransactionRecord) error {
	logger.Debug("saving transaction record...", zap.String("request id", record.RequestID), zap.String("status", record.Status))

	// the row is matched on request id; a primary key from an earlier save would
	// conflict on id instead
	row := *record
	row.ID = 0

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "request_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "hash", "stage", "vm_status", "error", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return errors.Wrap(err, "storage: cannot save transaction record")
	}

	logger.Debug("saving transaction record... done")
	return nil
}

// Transactions returns the newest records of sender first. A limit of zero or less
// returns all of them.
func (s *SqliteStorage) Transactions(sender string, limit int) ([]*TransactionRecord, error) {
	var records []*TransactionRecord

	query := s.db.Where("sender = ?", sender).Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "storage: cannot list transactions")
	}

	return records, nil
}

func (s *SqliteStorage) TransactionsByAction(actionType ActionType, sender string) ([]*TransactionRecord, error) {
	var records []*TransactionRecord

	err := s.db.Where("action_type = ? and sender = ?", actionType, sender).Order("created_at desc, id desc").Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "storage: cannot list transactions")
	}

	return records, nil
}

func (s *SqliteStorage) BalanceSnapshot(owner string, asset string) (*BalanceSnapshot, error) {
	var snapshot BalanceSnapshot

	err := s.db.Where("owner = ? and asset = ?", owner, asset).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "storage: cannot read balance snapshot")
	}

	return &snapshot, nil
}

func (s *SqliteStorage) UpdateBalanceSnapshot(snapshot *BalanceSnapshot) error {
	return s.UpdateBalanceSnapshots([]*BalanceSnapshot{snapshot})
}

func (s *SqliteStorage) UpdateBalanceSnapshots(snapshots []*BalanceSnapshot) error {
	logger.Debug("update balance snapshots...")

	if len(snapshots) == 0 {
		logger.Debug("no balance snapshots to persist")
		return nil
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "asset"}},
		DoUpdates: clause.AssignmentColumns([]string{"legacy", "indexer", "amount", "policy", "updated_at"}),
	}).CreateInBatches(snapshots, batchSize).Error
	if err != nil {
		return errors.Wrap(err, "storage: cannot update balance snapshots")
	}

	logger.Debug("update balance snapshots... done")
	return nil
}

func (s *SqliteStorage) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
