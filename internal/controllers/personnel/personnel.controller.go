package personnelController

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"muster/internal/logger"
	. "muster/internal/models"
	"muster/internal/repositories"
	"muster/internal/services"
)

type PersonnelController struct {
	personnelRepo      repositories.PersonnelRepository
	transactionService *services.TransactionService
	tokenGenerator     services.TokenGenerator
	log                logger.Logger
}

func New(
	personnelRepo repositories.PersonnelRepository,
	transactionService *services.TransactionService,
	tokenGenerator services.TokenGenerator,
) *PersonnelController {
	return &PersonnelController{
		personnelRepo:      personnelRepo,
		transactionService: transactionService,
		tokenGenerator:     tokenGenerator,
		log:                logger.New("PersonnelController"),
	}
}

func (pc *PersonnelController) List(ctx context.Context) ([]*Personnel, error) {
	personnel, err := pc.personnelRepo.GetAll(ctx)
	if err != nil {
		return nil, pc.log.Function("List").Err("failed to list personnel", err)
	}

	return personnel, nil
}

// Create inserts a personnel record. When the request carries no device
// token, one is issued immediately and returned with its registration URI;
// a token collision on that auto-issue leaves the record without a token
// rather than failing the creation.
func (pc *PersonnelController) Create(
	ctx context.Context,
	request CreatePersonnelRequest,
	baseURL string,
) (*Personnel, *TokenGrant, error) {
	log := pc.log.Function("Create")

	first, last := splitName(request)
	personnel := &Personnel{
		Name:     strings.TrimSpace(first + " " + last),
		IsActive: true,
	}
	if first != "" {
		personnel.FirstName = &first
	}
	if last != "" {
		personnel.LastName = &last
	}
	if request.Rank != "" {
		rank := request.Rank
		personnel.Rank = &rank
	}

	err := pc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if request.DeviceToken != "" {
			existing, err := pc.personnelRepo.GetByToken(txCtx, request.DeviceToken)
			if err != nil {
				return log.Err("failed to check token uniqueness", err)
			}
			if existing != nil {
				return ErrDuplicateToken
			}
			token := request.DeviceToken
			personnel.DeviceToken = &token
		}

		return pc.personnelRepo.Create(txCtx, personnel)
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateToken) {
			return nil, nil, ErrDuplicateToken
		}
		return nil, nil, log.Err("failed to create personnel", err)
	}

	if personnel.DeviceToken != nil {
		return personnel, nil, nil
	}

	grant, err := pc.IssueToken(ctx, personnel.ID, baseURL)
	if err != nil {
		log.Warn("failed to auto-issue token", "personnelID", personnel.ID, "error", err)
		return personnel, nil, nil
	}

	return personnel, grant, nil
}

// IssueToken generates a fresh device token for the personnel, replacing any
// existing one. The pre-write read is a best-effort optimization; the unique
// index decides, and a conflict surfaces as the transient ErrTokenCollision
// for the caller to retry with a new generation.
func (pc *PersonnelController) IssueToken(ctx context.Context, id int, baseURL string) (*TokenGrant, error) {
	log := pc.log.Function("IssueToken")

	personnel, err := pc.personnelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, log.Err("failed to get personnel", err, "id", id)
	}
	if personnel == nil {
		return nil, ErrNotFound
	}

	token, err := pc.tokenGenerator.Generate()
	if err != nil {
		return nil, log.Err("failed to generate token", err)
	}

	existing, err := pc.personnelRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, log.Err("failed to check token uniqueness", err)
	}
	if existing != nil {
		return nil, ErrTokenCollision
	}

	if err := pc.personnelRepo.SetDeviceToken(ctx, id, &token); err != nil {
		if errors.Is(err, ErrDuplicateToken) {
			return nil, ErrTokenCollision
		}
		return nil, log.Err("failed to store token", err, "id", id)
	}

	return &TokenGrant{
		Token:       token,
		RegisterURL: baseURL + "/register.html?token=" + url.QueryEscape(token),
	}, nil
}

// RevokeToken clears the personnel's device token. Previously rendered
// registration artifacts become stale; consumers treat them as invalid.
func (pc *PersonnelController) RevokeToken(ctx context.Context, id int) error {
	log := pc.log.Function("RevokeToken")

	if err := pc.personnelRepo.SetDeviceToken(ctx, id, nil); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return log.Err("failed to revoke token", err, "id", id)
	}

	return nil
}

func (pc *PersonnelController) Delete(ctx context.Context, id int) error {
	log := pc.log.Function("Delete")

	if err := pc.personnelRepo.Delete(ctx, id); err != nil {
		return log.Err("failed to delete personnel", err, "id", id)
	}

	return nil
}

func splitName(request CreatePersonnelRequest) (first, last string) {
	first = strings.TrimSpace(request.FirstName)
	last = strings.TrimSpace(request.LastName)
	if first != "" || last != "" {
		return first, last
	}

	parts := strings.Fields(request.Name)
	if len(parts) == 0 {
		return "", ""
	}

	return parts[0], strings.Join(parts[1:], " ")
}
