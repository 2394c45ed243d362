package storage

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"gorm.io/gorm"
)

// ChangelogFilter narrows FindAll. Type and Search act on the changes: a changelog
// is returned only when at least one of its changes matches, and only the
// matching changes are loaded.
type ChangelogFilter struct {
	Type    models.Category
	Search  string
	RepoURL string
}

func (f ChangelogFilter) filtersChanges() bool {
	return f.Type != "" || strings.TrimSpace(f.Search) != ""
}

type ChangelogRepository interface {
	Save(ctx context.Context, changelog *models.Changelog) error
	FindAll(ctx context.Context, filter ChangelogFilter) ([]models.Changelog, error)
	FindByID(ctx context.Context, id string) (*models.Changelog, error)
	Delete(ctx context.Context, id string) error
}

type changelogRepository struct {
	db *gorm.DB
}

func NewChangelogRepository(db *gorm.DB) ChangelogRepository {
	return &changelogRepository{db: db}
}

// Save writes the changelog and all of its changes atomically.
func (r *changelogRepository) Save(ctx context.Context, changelog *models.Changelog) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Changes").Create(changelog).Error; err != nil {
			return err
		}
		if len(changelog.Changes) == 0 {
			return nil
		}
		for i := range changelog.Changes {
			changelog.Changes[i].ChangelogID = changelog.ID
		}
		return tx.Create(&changelog.Changes).Error
	})
	if err != nil {
		logger.Error(ctx, "failed to save changelog", err,
			"changelog_id", changelog.ID,
			"changes_count", len(changelog.Changes))
		return domainErrors.ErrPersistence.WithError(err).WithContext("changelog_id", changelog.ID)
	}

	logger.Debug(ctx, "changelog saved",
		"changelog_id", changelog.ID,
		"changes_count", len(changelog.Changes))
	return nil
}

func (r *changelogRepository) FindAll(ctx context.Context, filter ChangelogFilter) ([]models.Changelog, error) {
	query := r.db.WithContext(ctx).Model(&models.Changelog{})
	if filter.RepoURL != "" {
		query = query.Where("repo_url = ?", filter.RepoURL)
	}

	cond, args := changeCondition(filter)
	if filter.filtersChanges() {
		exists := "EXISTS (SELECT 1 FROM changes WHERE changes.changelog_id = changelogs.id AND " + cond + ")"
		query = query.Where(exists, args...)
	}

	query = query.Preload("Changes", func(db *gorm.DB) *gorm.DB {
		if filter.filtersChanges() {
			db = db.Where(cond, args...)
		}
		return db.Order("date DESC")
	})

	var changelogs []models.Changelog
	if err := query.Order("date DESC").Find(&changelogs).Error; err != nil {
		return nil, domainErrors.ErrQuery.WithError(err)
	}
	return changelogs, nil
}

func (r *changelogRepository) FindByID(ctx context.Context, id string) (*models.Changelog, error) {
	var changelog models.Changelog
	err := r.db.WithContext(ctx).
		Preload("Changes", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		Where("id = ?", id).
		First(&changelog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrChangelogNotFound.WithContext("id", id)
		}
		return nil, domainErrors.ErrQuery.WithError(err).WithContext("id", id)
	}
	return &changelog, nil
}

// Delete removes a changelog; the foreign key cascade removes its changes.
func (r *changelogRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Changelog{})
	if res.Error != nil {
		return domainErrors.ErrPersistence.WithError(res.Error).WithContext("id", id)
	}
	if res.RowsAffected == 0 {
		return domainErrors.ErrChangelogNotFound.WithContext("id", id)
	}
	return nil
}

func changeCondition(filter ChangelogFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.Type != "" {
		clauses = append(clauses, "changes.type = ?")
		args = append(args, string(filter.Type))
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		like := "%" + term + "%"
		clauses = append(clauses, "(LOWER(changes.description) LIKE ? OR LOWER(changes.author) LIKE ? OR LOWER(changes.type) LIKE ?)")
		args = append(args, like, like, like)
	}

	return strings.Join(clauses, " AND "), args
}
