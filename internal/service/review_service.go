package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
)

// ReviewService implements review submission, listing, author edits, and the
// moderation workflow that keeps company ratings in sync.
type ReviewService struct {
	reviews   port.ReviewStore
	companies port.CompanyStore
	authz     *Authz
}

// NewReviewService wires the review service.
func NewReviewService(reviews port.ReviewStore, companies port.CompanyStore, authz *Authz) *ReviewService {
	return &ReviewService{reviews: reviews, companies: companies, authz: authz}
}

// Create submits a review. The company must exist, the rating must lie in
// [1, 5], and the review always enters the queue as pending regardless of
// any status in the input.
func (s *ReviewService) Create(ctx context.Context, actor *domain.User, r *domain.Review) (*domain.Review, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", port.ErrValidation)
	}
	if _, err := s.companies.GetCompanyByID(ctx, r.CompanyID); err != nil {
		return nil, err
	}
	r.UserID = actor.ID
	r.Status = domain.ReviewPending
	created, err := s.reviews.CreateReview(ctx, r)
	if err != nil {
		return nil, err
	}
	slog.Info("review submitted", "review_id", created.ID, "company_id", created.CompanyID)
	return created, nil
}

// Get returns one review by id.
func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.GetReviewByID(ctx, id)
}

// ListByCompany returns a page of a company's reviews, optionally filtered by
// status. The company must exist.
func (s *ReviewService) ListByCompany(ctx context.Context, companyID string, status domain.ReviewStatus, page port.Page) ([]domain.Review, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown review status %q", port.ErrValidation, status)
	}
	if _, err := s.companies.GetCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.reviews.ListReviewsByCompany(ctx, companyID, status, page)
}

// Queue returns the moderation queue: reviews across all companies filtered
// by status, pending by default.
func (s *ReviewService) Queue(ctx context.Context, status domain.ReviewStatus, page port.Page) ([]domain.Review, error) {
	if status == "" {
		status = domain.ReviewPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown review status %q", port.ErrValidation, status)
	}
	return s.reviews.ListReviews(ctx, status, page)
}

// Update applies an author edit. Callers without write access get the same
// not-found error as a missing review, so the response does not confirm the
// review exists. Edits reset the review to pending for re-moderation.
func (s *ReviewService) Update(ctx context.Context, actor *domain.User, id string, patch domain.ReviewPatch) (*domain.Review, error) {
	review, err := s.reviews.GetReviewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.authz.CanMutate(ctx, actor, review.UserID, review.CompanyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, port.ErrReviewNotFound
	}

	if patch.Rating != nil {
		if *patch.Rating < 1 || *patch.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", port.ErrValidation)
		}
		review.Rating = *patch.Rating
	}
	if patch.Title != nil {
		review.Title = *patch.Title
	}
	if patch.Content != nil {
		review.Content = *patch.Content
	}
	if patch.Pros != nil {
		review.Pros = *patch.Pros
	}
	if patch.Cons != nil {
		review.Cons = *patch.Cons
	}
	if patch.IsCurrentEmployee != nil {
		review.IsCurrentEmployee = *patch.IsCurrentEmployee
	}
	if patch.IsAnonymous != nil {
		review.IsAnonymous = *patch.IsAnonymous
	}
	if patch.WorkLocation != nil {
		review.WorkLocation = *patch.WorkLocation
	}
	wasVerified := review.Status == domain.ReviewVerified
	review.Status = domain.ReviewPending

	updated, err := s.reviews.UpdateReview(ctx, review)
	if err != nil {
		return nil, err
	}
	if wasVerified {
		s.recomputeRating(ctx, updated.CompanyID)
	}
	return updated, nil
}

// Delete removes a review, with the same ownership rules and not-found
// masking as Update.
func (s *ReviewService) Delete(ctx context.Context, actor *domain.User, id string) error {
	review, err := s.reviews.GetReviewByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.authz.CanMutate(ctx, actor, review.UserID, review.CompanyID)
	if err != nil {
		return err
	}
	if !ok {
		return port.ErrReviewNotFound
	}
	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		return err
	}
	if review.Status == domain.ReviewVerified {
		s.recomputeRating(ctx, review.CompanyID)
	}
	return nil
}

// Moderate applies a moderator decision, records it in the moderation trail,
// and recomputes the company rating when the verified set changed.
func (s *ReviewService) Moderate(ctx context.Context, moderator *domain.User, reviewID string, status domain.ReviewStatus, note string) (*domain.Review, error) {
	if status != domain.ReviewVerified && status != domain.ReviewRejected {
		return nil, fmt.Errorf("%w: moderation decision must be verified or rejected", port.ErrValidation)
	}
	review, err := s.reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	wasVerified := review.Status == domain.ReviewVerified
	review.Status = status

	updated, err := s.reviews.UpdateReview(ctx, review)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.CreateModerationLog(ctx, &domain.ModerationLog{
		ReviewID:    reviewID,
		ModeratorID: moderator.ID,
		Decision:    string(status),
		Note:        note,
	}); err != nil {
		slog.Error("failed to record moderation decision", "review_id", reviewID, "error", err)
	}

	if wasVerified != (status == domain.ReviewVerified) {
		s.recomputeRating(ctx, updated.CompanyID)
	}

	slog.Info("review moderated", "review_id", reviewID, "decision", status, "moderator_id", moderator.ID)
	return updated, nil
}

// ModerationHistory returns the decision trail of one review.
func (s *ReviewService) ModerationHistory(ctx context.Context, reviewID string) ([]domain.ModerationLog, error) {
	if _, err := s.reviews.GetReviewByID(ctx, reviewID); err != nil {
		return nil, err
	}
	return s.reviews.ListModerationLogs(ctx, reviewID)
}

// recomputeRating refreshes the company's derived rating from its verified
// reviews. Failures are logged; the triggering operation has already
// succeeded and is not rolled back over a stale rating.
func (s *ReviewService) recomputeRating(ctx context.Context, companyID string) {
	avg, err := s.reviews.VerifiedRatingAverage(ctx, companyID)
	if err != nil {
		slog.Error("failed to compute company rating", "company_id", companyID, "error", err)
		return
	}
	rounded := math.Round(avg*10) / 10
	if err := s.companies.SetCompanyRating(ctx, companyID, rounded); err != nil {
		slog.Error("failed to store company rating", "company_id", companyID, "error", err)
	}
}
