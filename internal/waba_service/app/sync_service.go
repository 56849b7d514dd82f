package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hiperzap/waba-platform/internal/waba_service/adapters/metagraph"
	"github.com/hiperzap/waba-platform/internal/waba_service/domain"
)

// DirectoryClient is the subset of the Graph client the sync engine needs.
type DirectoryClient interface {
	GetBusinesses(ctx context.Context) (*metagraph.BusinessesResponse, error)
	GetOwnedWABAs(ctx context.Context, businessID string) (*metagraph.WABAsResponse, error)
	GetClientWABAs(ctx context.Context, businessID string) (*metagraph.WABAsResponse, error)
	GetPhoneNumbers(ctx context.Context, wabaID string) (*metagraph.PhoneNumbersResponse, error)
}

// DirectoryClientFactory builds a DirectoryClient bound to one access token.
type DirectoryClientFactory func(accessToken string) DirectoryClient

// SyncResult is the structured outcome of one reconciliation pass.
// Succeeded is true iff Errors is empty.
type SyncResult struct {
	Succeeded         bool      `json:"succeeded"`
	BusinessManagerID uuid.UUID `json:"business_manager_id"`
	MetaBusinessID    string    `json:"meta_business_id,omitempty"`
	WABACount         int       `json:"wabas_count"`
	PhoneNumberCount  int       `json:"phone_numbers_count"`
	Errors            []string  `json:"errors,omitempty"`
}

// SyncService reconciles one Business Manager's remote account hierarchy
// into local storage. All failures are folded into the SyncResult; Reconcile
// never returns a Go error and never panics past its boundary.
type SyncService struct {
	businessManagers domain.BusinessManagerRepository
	wabas            domain.WABARepository
	phoneNumbers     domain.PhoneNumberRepository
	newClient        DirectoryClientFactory
	logger           *slog.Logger
}

func NewSyncService(
	businessManagers domain.BusinessManagerRepository,
	wabas domain.WABARepository,
	phoneNumbers domain.PhoneNumberRepository,
	newClient DirectoryClientFactory,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		businessManagers: businessManagers,
		wabas:            wabas,
		phoneNumbers:     phoneNumbers,
		newClient:        newClient,
		logger:           logger.With("component", "sync_service"),
	}
}

// Reconcile runs one reconciliation pass for a single Business Manager.
//
// The pass fails fast (no writes) on a missing manager, a missing access
// token, or an empty business list. Once the manager's remote identity has
// been stamped, failures of individual WABAs or their phone numbers are
// collected into the error list and never abort the pass.
func (s *SyncService) Reconcile(ctx context.Context, businessManagerID uuid.UUID) SyncResult {
	start := time.Now()
	result := SyncResult{BusinessManagerID: businessManagerID}

	bm, err := s.businessManagers.GetByID(ctx, businessManagerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			result.Errors = append(result.Errors, fmt.Sprintf("business manager %s not found", businessManagerID))
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to load business manager %s: %v", businessManagerID, err))
		}
		return s.finish(ctx, result, start)
	}
	if !bm.HasAccessToken() {
		result.Errors = append(result.Errors, fmt.Sprintf("business manager %s has no access token", businessManagerID))
		return s.finish(ctx, result, start)
	}

	client := s.newClient(bm.AccessToken)

	businesses, err := client.GetBusinesses(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to fetch businesses: %v", err))
		return s.finish(ctx, result, start)
	}
	if len(businesses.Data) == 0 {
		result.Errors = append(result.Errors, "no businesses found for this access token")
		return s.finish(ctx, result, start)
	}

	// A system-user token usually maps to exactly one business; use the first.
	business := businesses.Data[0]
	result.MetaBusinessID = business.ID

	// Identity is stamped before any group work so the row always carries
	// the most recent successful identity fetch, even if the rest of the
	// pass fails.
	bm.ApplySyncIdentity(business.ID, business.Name,
		domain.BusinessVerificationStatusUnchecked(business.VerificationStatus), time.Now().UTC())
	if err := s.businessManagers.Update(ctx, bm); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to persist business manager identity: %v", err))
		return s.finish(ctx, result, start)
	}

	owned, err := client.GetOwnedWABAs(ctx, business.ID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to list owned WABAs: %v", err))
	} else {
		s.reconcileWABAs(ctx, client, bm, owned.Data, domain.OwnershipOwned, &result)
	}

	// Client (shared) WABAs may be denied by token permissions; that is not
	// an error for the pass.
	shared, err := client.GetClientWABAs(ctx, business.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "Could not fetch client WABAs, skipping",
			"business_manager_id", businessManagerID, "error", err)
	} else {
		s.reconcileWABAs(ctx, client, bm, shared.Data, domain.OwnershipClient, &result)
	}

	return s.finish(ctx, result, start)
}

func (s *SyncService) finish(ctx context.Context, result SyncResult, start time.Time) SyncResult {
	result.Succeeded = len(result.Errors) == 0

	status := "success"
	if !result.Succeeded {
		status = "failure"
	}
	syncPassesTotal.WithLabelValues(status).Inc()
	syncedWABAsTotal.Add(float64(result.WABACount))
	syncedPhoneNumbersTotal.Add(float64(result.PhoneNumberCount))
	syncPassDuration.Observe(time.Since(start).Seconds())

	s.logger.InfoContext(ctx, "Reconciliation pass finished",
		"business_manager_id", result.BusinessManagerID,
		"succeeded", result.Succeeded,
		"wabas", result.WABACount,
		"phone_numbers", result.PhoneNumberCount,
		"errors", len(result.Errors),
		"duration", time.Since(start))
	return result
}

func (s *SyncService) reconcileWABAs(
	ctx context.Context,
	client DirectoryClient,
	bm *domain.BusinessManager,
	remote []metagraph.WABA,
	ownership domain.OwnershipType,
	result *SyncResult,
) {
	for _, rw := range remote {
		waba, err := s.upsertWABA(ctx, bm.ID, rw, ownership)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to sync WABA %s: %v", rw.ID, err))
			continue
		}
		result.WABACount++

		if err := s.reconcilePhoneNumbers(ctx, client, waba, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to sync phone numbers for WABA %s: %v", rw.ID, err))
		}
	}
}

func (s *SyncService) reconcilePhoneNumbers(
	ctx context.Context,
	client DirectoryClient,
	waba *domain.WABA,
	result *SyncResult,
) error {
	resp, err := client.GetPhoneNumbers(ctx, waba.MetaWABAID)
	if err != nil {
		return err
	}

	for _, rp := range resp.Data {
		if err := s.upsertPhoneNumber(ctx, waba.ID, rp); err != nil {
			return err
		}
		result.PhoneNumberCount++
	}
	return nil
}

func (s *SyncService) upsertWABA(ctx context.Context, businessManagerID uuid.UUID, rw metagraph.WABA, ownership domain.OwnershipType) (*domain.WABA, error) {
	attrs := domain.WABAAttributes{
		Name:                       rw.Name,
		Currency:                   rw.Currency,
		TimezoneID:                 rw.TimezoneID,
		MessageTemplateNamespace:   rw.MessageTemplateNamespace,
		AccountReviewStatus:        domain.WABAReviewStatusUnchecked(rw.AccountReviewStatus),
		BusinessVerificationStatus: domain.WABAVerificationStatusUnchecked(rw.BusinessVerificationStatus),
	}

	var out *domain.WABA
	_, err := upsertByRemoteID(ctx,
		func(ctx context.Context) (*domain.WABA, error) {
			return s.wabas.FindByMetaWABAID(ctx, rw.ID)
		},
		func(ctx context.Context) error {
			w, err := domain.NewWABA(businessManagerID, rw.ID, attrs, ownership)
			if err != nil {
				return err
			}
			if err := s.wabas.Create(ctx, w); err != nil {
				return err
			}
			out = w
			return nil
		},
		func(ctx context.Context, existing *domain.WABA) error {
			existing.UpdateFromRemote(attrs, ownership)
			if err := s.wabas.Update(ctx, existing); err != nil {
				return err
			}
			out = existing
			return nil
		},
	)
	return out, err
}

func (s *SyncService) upsertPhoneNumber(ctx context.Context, wabaID uuid.UUID, rp metagraph.PhoneNumber) error {
	throughputLevel := ""
	if rp.Throughput != nil {
		throughputLevel = rp.Throughput.Level
	}
	attrs := domain.PhoneNumberAttributes{
		PhoneNumber:               domain.PhoneNumberE164Unchecked(domain.NormalizeDisplayNumber(rp.DisplayPhoneNumber)),
		DisplayPhoneNumber:        rp.DisplayPhoneNumber,
		VerifiedName:              rp.VerifiedName,
		NameStatus:                domain.PhoneNameStatusUnchecked(rp.NameStatus),
		QualityRating:             domain.QualityRatingUnchecked(rp.QualityRating),
		Status:                    domain.PhoneNumberStatusUnchecked(rp.Status),
		PlatformType:              domain.PlatformTypeUnchecked(rp.PlatformType),
		MessagingLimitTier:        domain.MessagingLimitTierUnchecked(rp.MessagingLimitTier),
		ThroughputLevel:           domain.ThroughputLevelUnchecked(throughputLevel),
		CodeVerificationStatus:    domain.CodeVerificationStatusUnchecked(rp.CodeVerificationStatus),
		IsOfficialBusinessAccount: rp.IsOfficialBusiness,
		Certificate:               rp.Certificate,
	}

	_, err := upsertByRemoteID(ctx,
		func(ctx context.Context) (*domain.PhoneNumber, error) {
			return s.phoneNumbers.FindByMetaPhoneNumberID(ctx, rp.ID)
		},
		func(ctx context.Context) error {
			pn, err := domain.NewPhoneNumber(wabaID, rp.ID, attrs)
			if err != nil {
				return err
			}
			return s.phoneNumbers.Create(ctx, pn)
		},
		func(ctx context.Context, existing *domain.PhoneNumber) error {
			existing.UpdateFromRemote(attrs)
			return s.phoneNumbers.Update(ctx, existing)
		},
	)
	return err
}

// upsertByRemoteID is the single find-by-remote-id then insert-or-update
// routine behind every entity kind: reconciliation must never create a second
// row for a remote identifier that is already present, and an update must
// leave the remote identifier and the owner relationship untouched. Keeping
// the branch in one place keeps that invariant centrally enforced.
func upsertByRemoteID[E any](
	ctx context.Context,
	find func(ctx context.Context) (*E, error),
	insert func(ctx context.Context) error,
	update func(ctx context.Context, existing *E) error,
) (created bool, err error) {
	existing, err := find(ctx)
	if err != nil {
		return false, fmt.Errorf("lookup by remote id: %w", err)
	}
	if existing == nil {
		if err := insert(ctx); err != nil {
			return false, fmt.Errorf("insert: %w", err)
		}
		return true, nil
	}
	if err := update(ctx, existing); err != nil {
		return false, fmt.Errorf("update: %w", err)
	}
	return false, nil
}
