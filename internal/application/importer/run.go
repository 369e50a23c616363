package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/tabular"
)

// Run processes one pending job end to end. Rows are handled strictly
// sequentially; each row's create or update is its own transaction, so a
// crash mid-run leaves prior rows committed. A panic escaping row processing
// is recovered here and recorded as the job's failure message.
func (s *Service) Run(ctx context.Context, job *bulk.ImportJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("import run panicked",
				zap.String("job_id", job.ID.String()),
				zap.Any("panic", r))
			job.Fail(fmt.Sprintf("unexpected failure: %v", r))
			if saveErr := s.jobs.Update(ctx, job); saveErr != nil {
				s.logger.Error("failed to persist failed job", zap.Error(saveErr))
			}
			s.progress.Clear(ctx, job.ID)
			err = fmt.Errorf("import run failed: %v", r)
		}
	}()

	if err := job.Start(); err != nil {
		return err
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to mark job processing: %w", err)
	}
	s.progress.Report(ctx, job)

	data, err := s.blobs.Download(ctx, job.FileKey)
	if err != nil {
		return s.failRun(ctx, job, fmt.Sprintf("failed to read uploaded file: %v", err))
	}
	table, err := tabular.Read(data, job.FileName)
	if err != nil {
		return s.failRun(ctx, job, fmt.Sprintf("file could not be parsed: %v", err))
	}

	job.SetTotalRows(len(table.Rows))
	if err := s.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to persist row count: %w", err)
	}

	for _, row := range table.Rows {
		outcome, sku, name, message := s.processRow(ctx, job, row)

		record, recErr := bulk.NewRowRecord(job.ID, row.Number, sku, name, outcome, message, row.Cells)
		if recErr == nil {
			if saveErr := s.rows.Save(ctx, record); saveErr != nil {
				s.logger.Error("failed to save row record",
					zap.Int("row", row.Number), zap.Error(saveErr))
			}
		}

		job.RecordOutcome(outcome)
		if saveErr := s.jobs.Update(ctx, job); saveErr != nil {
			s.logger.Error("failed to persist job counters", zap.Error(saveErr))
		}
		s.progress.Report(ctx, job)
	}

	if err := job.Finish(); err != nil {
		return err
	}

	if key, logErr := s.writeLog(ctx, job); logErr != nil {
		s.logger.Error("failed to generate import log",
			zap.String("job_id", job.ID.String()), zap.Error(logErr))
	} else {
		job.AttachLog(key)
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to persist finished job: %w", err)
	}
	// the persisted job row is the source of truth from here on
	s.progress.Clear(ctx, job.ID)

	s.logger.Info("import job finished",
		zap.String("job_id", job.ID.String()),
		zap.String("status", string(job.Status)),
		zap.Int("total", job.TotalRows),
		zap.Int("created", job.CreatedCount),
		zap.Int("updated", job.UpdatedCount),
		zap.Int("skipped", job.SkippedCount),
		zap.Int("errors", job.ErrorCount))
	return nil
}

func (s *Service) failRun(ctx context.Context, job *bulk.ImportJob, message string) error {
	job.Fail(message)
	if err := s.jobs.Update(ctx, job); err != nil {
		s.logger.Error("failed to persist failed job", zap.Error(err))
	}
	s.progress.Clear(ctx, job.ID)
	return shared.NewDomainError("IMPORT_FAILED", message)
}

// processRow handles one row and returns its single recorded outcome. All
// row-level errors are absorbed here; nothing propagates past a row.
func (s *Service) processRow(ctx context.Context, job *bulk.ImportJob, row tabular.Row) (bulk.RowOutcome, string, string, string) {
	sku := row.Cells["sku"]
	name := row.Cells["name"]

	fields, err := parseRow(row)
	if err != nil {
		return bulk.OutcomeError, sku, name, err.Error()
	}

	var existing *catalog.Product
	if fields.SKU != "" {
		existing, err = s.store.FindProductBySKU(ctx, fields.SKU)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return bulk.OutcomeError, fields.SKU, fields.Name, fmt.Sprintf("lookup failed: %v", err)
		}
	}

	if existing != nil {
		if job.Mode == bulk.ModeCreate || job.SkipExisting {
			return bulk.OutcomeSkipped, existing.SKU, fields.Name, "Product already exists"
		}
		if err := s.updateProduct(ctx, job, existing, fields); err != nil {
			return bulk.OutcomeError, existing.SKU, fields.Name, err.Error()
		}
		message := appendWarnings("Product updated", s.attachImages(ctx, job, existing, fields.Images, true))
		return bulk.OutcomeUpdated, existing.SKU, fields.Name, message
	}

	if job.Mode == bulk.ModeUpdate {
		return bulk.OutcomeSkipped, fields.SKU, fields.Name, "Product not found"
	}

	product, err := s.createProduct(ctx, job, fields)
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return bulk.OutcomeError, fields.SKU, fields.Name, "SKU already exists"
		}
		return bulk.OutcomeError, fields.SKU, fields.Name, err.Error()
	}
	message := appendWarnings("Product created", s.attachImages(ctx, job, product, fields.Images, false))
	return bulk.OutcomeCreated, product.SKU, fields.Name, message
}

func (s *Service) createProduct(ctx context.Context, job *bulk.ImportJob, fields *rowFields) (*catalog.Product, error) {
	productSlug := ""
	if fields.Patch.Slug != nil {
		productSlug = *fields.Patch.Slug
	}
	product, err := catalog.NewProduct(fields.Name, productSlug, fields.SKU, *fields.Patch.Price)
	if err != nil {
		return nil, err
	}

	// name, price and slug already set by the constructor
	patch := fields.Patch
	patch.Name = nil
	patch.Price = nil
	patch.Slug = nil
	if err := product.Apply(patch); err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx CatalogStore) error {
		if err := tx.CreateProduct(ctx, product); err != nil {
			return err
		}
		return s.assignCategories(ctx, tx, job, product, fields.Categories, true)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) updateProduct(ctx context.Context, job *bulk.ImportJob, product *catalog.Product, fields *rowFields) error {
	if err := product.Apply(fields.Patch); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(tx CatalogStore) error {
		// rows that name no categories leave the existing set untouched
		if len(fields.Categories) > 0 {
			if err := s.assignCategories(ctx, tx, job, product, fields.Categories, false); err != nil {
				return err
			}
		}
		return tx.UpdateProduct(ctx, product)
	})
}

// assignCategories resolves the row's category names by slug, creating
// missing ones, replaces the product's category set and designates the
// first resolved category as main. The job's default category applies only
// when the row names none and applyDefault is set.
func (s *Service) assignCategories(ctx context.Context, tx CatalogStore, job *bulk.ImportJob, product *catalog.Product, names []string, applyDefault bool) error {
	var categories []*catalog.Category
	for _, name := range names {
		category, err := s.findOrCreateCategory(ctx, tx, name)
		if err != nil {
			return err
		}
		categories = append(categories, category)
	}

	if len(categories) == 0 {
		if !applyDefault || job.DefaultCategoryID == nil {
			return nil
		}
		category, err := tx.FindCategoryByID(ctx, *job.DefaultCategoryID)
		if err != nil {
			return fmt.Errorf("default category not found: %w", err)
		}
		categories = append(categories, category)
	}

	if err := tx.ReplaceProductCategories(ctx, product.ID, categories); err != nil {
		return err
	}
	mainID := categories[0].ID
	product.SetMainCategory(&mainID)
	return tx.UpdateProduct(ctx, product)
}

// findOrCreateCategory is an explicit lookup-then-insert; a concurrent
// insert of the same slug is re-read instead of failing the row.
func (s *Service) findOrCreateCategory(ctx context.Context, tx CatalogStore, name string) (*catalog.Category, error) {
	categorySlug := catalog.CategorySlug(name)
	category, err := tx.FindCategoryBySlug(ctx, categorySlug)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	category, err = catalog.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := tx.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return tx.FindCategoryBySlug(ctx, categorySlug)
		}
		return nil, err
	}
	return category, nil
}

func appendWarnings(message string, warnings []string) string {
	if len(warnings) == 0 {
		return message
	}
	return message + "; " + strings.Join(warnings, "; ")
}
