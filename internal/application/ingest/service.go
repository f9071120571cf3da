package ingestapp

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/catalog"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/mall"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/order"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/partner"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/config"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/spreadsheet"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/storage"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// TemplateResolver resolves the column template for a mall name
type TemplateResolver interface {
	Resolve(ctx context.Context, mallName string) (*mall.Template, error)
}

// IngestResult is the structured outcome one ingestion run reports back to
// the caller.
type IngestResult struct {
	UploadID                 uuid.UUID            `json:"upload_id"`
	TotalRows                int                  `json:"total_rows"`
	ProcessedOrders          int                  `json:"processed_orders"`
	DuplicateOrders          int                  `json:"duplicate_orders"`
	ErrorOrders              int                  `json:"error_orders"`
	ManufacturerBreakdown    map[string]int       `json:"manufacturer_breakdown"`
	AutoCreatedManufacturers []string             `json:"auto_created_manufacturers,omitempty"`
	Errors                   []ingest.ErrorSample `json:"errors,omitempty"`
	Summary                  string               `json:"summary"`
	ResultObjectKey          string               `json:"result_object_key,omitempty"`
}

// unassignedBucket labels orders with no resolved manufacturer in the
// breakdown.
const unassignedBucket = "미지정"

// IngestService runs the whole ingestion pipeline for one uploaded file:
// template resolution, streaming transform, manufacturer resolution against
// a once-per-run snapshot, exclusion matching, and the transactional bulk
// persistence stage. Each run is a single sequential pass; concurrent runs
// coordinate only through the idempotent-insert semantics of the store.
type IngestService struct {
	uploads        ingest.UploadRepository
	templates      TemplateResolver
	manufacturers  partner.ManufacturerRepository
	products       catalog.ProductRepository
	optionMappings catalog.OptionMappingRepository
	exclusions     order.ExclusionPatternRepository
	bulk           ingest.BulkStore
	storage        storage.ObjectStorage
	cfg            config.IngestConfig
	logger         *zap.Logger
}

// NewIngestService creates the ingestion service. The object storage is
// optional: when nil, generated workbooks are returned to the caller but not
// archived.
func NewIngestService(
	uploads ingest.UploadRepository,
	templates TemplateResolver,
	manufacturers partner.ManufacturerRepository,
	products catalog.ProductRepository,
	optionMappings catalog.OptionMappingRepository,
	exclusions order.ExclusionPatternRepository,
	bulk ingest.BulkStore,
	objectStorage storage.ObjectStorage,
	cfg config.IngestConfig,
	logger *zap.Logger,
) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{
		uploads:        uploads,
		templates:      templates,
		manufacturers:  manufacturers,
		products:       products,
		optionMappings: optionMappings,
		exclusions:     exclusions,
		bulk:           bulk,
		storage:        objectStorage,
		cfg:            cfg,
		logger:         logger,
	}
}

// IngestMallFile ingests a third-party shopping-mall export under the mall's
// stored template.
func (s *IngestService) IngestMallFile(ctx context.Context, mallName, fileName string, fileSize int64, r io.Reader) (*IngestResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "IngestService", "IngestMallFile",
		telemetry.WithAttribute("ingest.mall_name", mallName),
		telemetry.WithAttribute("ingest.file_name", fileName),
	)
	defer span.End()

	mallName = strings.TrimSpace(mallName)
	if mallName == "" {
		return nil, shared.NewDomainError("INVALID_MALL_NAME", "Mall name is required")
	}
	template, err := s.templates.Resolve(ctx, mallName)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return s.run(ctx, ingest.UploadKindMall, mallName, template, fileName, fileSize, r)
}

// IngestPlatformFile ingests a central-platform order export under the
// built-in platform layout.
func (s *IngestService) IngestPlatformFile(ctx context.Context, fileName string, fileSize int64, r io.Reader) (*IngestResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "IngestService", "IngestPlatformFile",
		telemetry.WithAttribute("ingest.file_name", fileName),
	)
	defer span.End()

	return s.run(ctx, ingest.UploadKindPlatform, PlatformSourceName, PlatformTemplate(), fileName, fileSize, r)
}

func (s *IngestService) run(ctx context.Context, kind ingest.UploadKind, mallName string, template *mall.Template, fileName string, fileSize int64, r io.Reader) (*IngestResult, error) {
	upload, err := ingest.NewUpload(kind, fileName, fileSize, mallName)
	if err != nil {
		return nil, err
	}
	if err := s.uploads.Save(ctx, upload); err != nil {
		return nil, fmt.Errorf("failed to create upload record: %w", err)
	}

	result, err := s.process(ctx, upload, mallName, template, fileSize, r)
	if err != nil {
		s.failUpload(ctx, upload, err)
		return nil, err
	}
	return result, nil
}

// process runs everything after the audit record exists. Any error returned
// here marks the upload as failed with zero counts.
func (s *IngestService) process(ctx context.Context, upload *ingest.Upload, mallName string, template *mall.Template, fileSize int64, r io.Reader) (*IngestResult, error) {
	if err := s.validateFile(upload.FileName, fileSize); err != nil {
		return nil, err
	}

	transformer := NewTransformer(template, mallName, s.cfg.MaxErrorsKept)
	tr, err := transformer.Transform(r)
	if err != nil {
		return nil, err
	}

	maps, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	matcher, err := s.loadExclusionMatcher(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.buildOrders(upload.ID, mallName, tr.Rows, maps, matcher)
	if err != nil {
		return nil, err
	}

	input := ingest.BulkInput{
		ManufacturerNames: tr.Aggregates.ManufacturerNames(),
		OptionCandidates:  tr.Aggregates.OptionCandidates(),
		Products:          resolveAggregates(tr.Aggregates.Products(), maps),
		Orders:            orders,
	}
	bulkResult, err := s.bulk.Persist(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to persist ingestion run: %w", err)
	}

	// The generated workbook is archived best-effort; persistence already
	// committed, so a storage failure must not fail the run.
	resultKey := s.archiveWorkbook(ctx, upload, tr.Workbook)

	errorRows := tr.TotalRows - len(tr.Rows)
	summary := fmt.Sprintf("전체 %d행 중 %d건 등록, 중복 %d건, 오류 %d건",
		tr.TotalRows, bulkResult.InsertedOrders, bulkResult.DuplicateOrders, errorRows)
	samples := errorSamples(tr.Errors)

	if err := upload.Complete(tr.TotalRows, bulkResult.InsertedOrders, errorRows, summary, samples, bulkResult.AutoCreatedManufacturers); err != nil {
		return nil, err
	}
	upload.SetResultObjectKey(resultKey)
	if err := s.uploads.Save(ctx, upload); err != nil {
		return nil, fmt.Errorf("failed to finalize upload record: %w", err)
	}

	s.logger.Info("ingestion run completed",
		zap.String("upload_id", upload.ID.String()),
		zap.String("mall_name", mallName),
		zap.Int("total_rows", tr.TotalRows),
		zap.Int("inserted", bulkResult.InsertedOrders),
		zap.Int("duplicates", bulkResult.DuplicateOrders),
		zap.Int("errors", errorRows),
	)

	return &IngestResult{
		UploadID:                 upload.ID,
		TotalRows:                tr.TotalRows,
		ProcessedOrders:          bulkResult.InsertedOrders,
		DuplicateOrders:          bulkResult.DuplicateOrders,
		ErrorOrders:              errorRows,
		ManufacturerBreakdown:    manufacturerBreakdown(orders, maps),
		AutoCreatedManufacturers: bulkResult.AutoCreatedManufacturers,
		Errors:                   samples,
		Summary:                  summary,
		ResultObjectKey:          resultKey,
	}, nil
}

func (s *IngestService) validateFile(fileName string, fileSize int64) error {
	ext := strings.ToLower(path.Ext(fileName))
	if ext != ".xlsx" && ext != ".xls" {
		return spreadsheet.ErrUnsupportedFileType
	}
	if fileSize <= 0 {
		return spreadsheet.ErrEmptyFile
	}
	if s.cfg.MaxFileSize > 0 && fileSize > s.cfg.MaxFileSize {
		return spreadsheet.ErrFileTooLarge
	}
	return nil
}

// loadSnapshot fetches the reference data once per run. Rows arriving from
// concurrent uploads after this point are invisible to resolution; the store
// re-checks its conditions at write time, so staleness degrades to no-ops.
func (s *IngestService) loadSnapshot(ctx context.Context) (LookupMaps, error) {
	manufacturers, err := s.manufacturers.FindAll(ctx)
	if err != nil {
		return LookupMaps{}, fmt.Errorf("failed to load manufacturers: %w", err)
	}
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return LookupMaps{}, fmt.Errorf("failed to load products: %w", err)
	}
	mappings, err := s.optionMappings.FindAll(ctx)
	if err != nil {
		return LookupMaps{}, fmt.Errorf("failed to load option mappings: %w", err)
	}
	return BuildLookupMaps(manufacturers, products, mappings), nil
}

func (s *IngestService) loadExclusionMatcher(ctx context.Context) (*ExclusionMatcher, error) {
	patterns, err := s.exclusions.FindEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusion patterns: %w", err)
	}
	return NewExclusionMatcher(patterns), nil
}

func (s *IngestService) buildOrders(uploadID uuid.UUID, mallName string, rows []CanonicalRow, maps LookupMaps, matcher *ExclusionMatcher) ([]order.Order, error) {
	orders := make([]order.Order, 0, len(rows))
	for _, c := range rows {
		o, err := order.NewOrder(c.OrderNo, mallName, c.ProductName, uploadID)
		if err != nil {
			return nil, err
		}
		o.MallOrderNo = c.MallOrderNo
		o.OptionName = c.OptionName
		o.ProductCode = c.ProductCode
		o.ManufacturerName = strings.TrimSpace(c.ManufacturerName)
		o.Quantity = c.Quantity
		o.PaymentAmount = c.PaymentAmount
		o.Cost = c.Cost
		o.ShippingCost = c.ShippingCost
		o.FulfillmentType = c.FulfillmentType
		o.RecipientName = c.RecipientName
		o.RecipientPhone = c.RecipientPhone
		o.RecipientAddress = c.RecipientAddress
		o.PostalCode = c.PostalCode
		o.Memo = c.Memo

		o.ManufacturerID = ResolveManufacturerID(o, maps)
		matcher.Apply(o)
		orders = append(orders, *o)
	}
	return orders, nil
}

// resolveAggregates fills the option-mapping resolution onto aggregates that
// carry no manufacturer name. Named aggregates are resolved by name inside
// the store, after auto-creation.
func resolveAggregates(aggs []ingest.ProductAggregate, maps LookupMaps) []ingest.ProductAggregate {
	for i := range aggs {
		if !partner.IsUnspecifiedName(aggs[i].ManufacturerName) {
			continue
		}
		if aggs[i].OptionName == "" {
			continue
		}
		key := NewOptionKey(aggs[i].ProductCode, aggs[i].OptionName)
		if id, ok := maps.OptionMappings[key]; ok && id != nil {
			mid := *id
			aggs[i].MappedManufacturerID = &mid
		}
	}
	return aggs
}

func manufacturerBreakdown(orders []order.Order, maps LookupMaps) map[string]int {
	breakdown := make(map[string]int)
	for _, o := range orders {
		name := unassignedBucket
		switch {
		case o.ManufacturerID != nil:
			if display, ok := maps.ManufacturerNames[*o.ManufacturerID]; ok {
				name = display
			} else if o.ManufacturerName != "" {
				// Resolved against a name auto-created in this run
				name = o.ManufacturerName
			}
		case !partner.IsUnspecifiedName(o.ManufacturerName):
			name = o.ManufacturerName
		}
		breakdown[name]++
	}
	return breakdown
}

func errorSamples(ec *spreadsheet.ErrorCollection) []ingest.ErrorSample {
	rowErrors := ec.Errors()
	limit := len(rowErrors)
	if limit > ingest.ErrorSampleLimit {
		limit = ingest.ErrorSampleLimit
	}
	samples := make([]ingest.ErrorSample, 0, limit)
	for _, re := range rowErrors[:limit] {
		samples = append(samples, ingest.ErrorSample{Row: re.Row, Message: re.Message})
	}
	return samples
}

func (s *IngestService) archiveWorkbook(ctx context.Context, upload *ingest.Upload, workbook []byte) string {
	if s.storage == nil || len(workbook) == 0 {
		return ""
	}
	key := fmt.Sprintf("generated/%s/%s", upload.ID, resultFileName(upload.FileName))
	if err := s.storage.Upload(ctx, key, workbook, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil {
		s.logger.Warn("failed to archive generated workbook",
			zap.String("upload_id", upload.ID.String()),
			zap.Error(err),
		)
		return ""
	}
	return key
}

func resultFileName(sourceName string) string {
	base := strings.TrimSuffix(sourceName, path.Ext(sourceName))
	return base + "_변환.xlsx"
}

func (s *IngestService) failUpload(ctx context.Context, upload *ingest.Upload, cause error) {
	if err := upload.Fail(cause.Error()); err != nil {
		// A terminal record here means the run finished and only the finalize
		// save failed; the data is committed, so retry persisting the terminal
		// state instead of leaving the audit row in processing.
		if saveErr := s.uploads.Save(ctx, upload); saveErr != nil {
			s.logger.Error("upload record stranded in processing state",
				zap.String("upload_id", upload.ID.String()),
				zap.Error(saveErr),
			)
		}
		return
	}
	if err := s.uploads.Save(ctx, upload); err != nil {
		s.logger.Error("failed to save failed upload record",
			zap.String("upload_id", upload.ID.String()),
			zap.Error(err),
		)
	}
}
