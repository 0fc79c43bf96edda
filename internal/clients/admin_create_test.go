package clients

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/internal/mailer"
	pkgmodels "github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/enums"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/jobs"
)

func samplePersonaRequest(email string) CreateClientAdminRequest {
	return CreateClientAdminRequest{
		Email:          email,
		ClientType:     enums.ClientTypePersona,
		FirstName:      strptr("Marco"),
		LastName:       strptr("Quispe"),
		DocumentType:   enums.DocumentTypeDNI,
		DocumentNumber: "45871236",
	}
}

func sampleEmpresaRequest(email string) CreateClientAdminRequest {
	return CreateClientAdminRequest{
		Email:          email,
		ClientType:     enums.ClientTypeEmpresa,
		DocumentType:   enums.DocumentTypeRUC,
		DocumentNumber: "20123456789",
		CompanyName:    strptr("Textiles Andinos SAC"),
		ContactName:    strptr("Rosa Mamani"),
	}
}

func TestCreateClientAdminPersona(t *testing.T) {
	setup := newServiceTestSetup(t)

	dto, err := setup.service.CreateClientAdmin(context.Background(), samplePersonaRequest("marco@example.com"))
	if err != nil {
		t.Fatalf("create client failed: %v", err)
	}

	if setup.provider.createdWith != [2]string{"marco@example.com", "TempPass1234"} {
		t.Fatalf("provider provisioned with %v", setup.provider.createdWith)
	}
	if setup.clientRepo.created == nil || !setup.clientRepo.created.NeedsPasswordChange || !setup.clientRepo.created.CreatedByAdmin {
		t.Fatalf("expected admin-created client with forced password change")
	}
	if setup.clientRepo.createdCompany != nil {
		t.Fatalf("Persona clients must not get a company record")
	}
	if dto.Client == nil || dto.Client.ClientType == nil || *dto.Client.ClientType != enums.ClientTypePersona {
		t.Fatalf("expected Persona client type on result")
	}

	if len(setup.dispatcher.jobs) != 1 {
		t.Fatalf("expected one enqueued job, got %d", len(setup.dispatcher.jobs))
	}
	job := setup.dispatcher.jobs[0]
	if job.name != jobs.JobSendTemporalCredentials {
		t.Fatalf("unexpected job name %s", job.name)
	}
	payload, ok := job.payload.(mailer.TempCredentialsPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", job.payload)
	}
	if payload.TempPassword != "TempPass1234" || payload.Email != "marco@example.com" {
		t.Fatalf("credentials payload mismatch: %+v", payload)
	}
}

func TestCreateClientAdminEmpresaCreatesCompany(t *testing.T) {
	setup := newServiceTestSetup(t)

	dto, err := setup.service.CreateClientAdmin(context.Background(), sampleEmpresaRequest("empresa@example.com"))
	if err != nil {
		t.Fatalf("create client failed: %v", err)
	}

	if setup.clientRepo.createdCompany == nil {
		t.Fatalf("expected company record for Empresa client")
	}
	if setup.clientRepo.createdCompany.CompanyName != "Textiles Andinos SAC" {
		t.Fatalf("company name mismatch: %q", setup.clientRepo.createdCompany.CompanyName)
	}
	if dto.Client == nil || dto.Client.CompanyName == nil {
		t.Fatalf("expected company on result DTO")
	}
}

func TestCreateClientAdminValidatesBeforeSideEffects(t *testing.T) {
	setup := newServiceTestSetup(t)

	req := sampleEmpresaRequest("empresa@example.com")
	req.CompanyName = nil

	_, err := setup.service.CreateClientAdmin(context.Background(), req)
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if setup.provider.createCalls != 0 {
		t.Fatalf("provider must not be called on validation failure")
	}
	if setup.userRepo.created != nil || setup.clientRepo.created != nil {
		t.Fatalf("no storage writes allowed on validation failure")
	}
	if len(setup.dispatcher.jobs) != 0 {
		t.Fatalf("no jobs allowed on validation failure")
	}
}

func TestCreateClientAdminChecksDocumentUniqueness(t *testing.T) {
	setup := newServiceTestSetup(t)
	holder := existingClienteUser("otro@example.com")
	holder.DocumentNumber = strptr("45871236")
	setup.userRepo.add(holder)

	_, err := setup.service.CreateClientAdmin(context.Background(), samplePersonaRequest("marco@example.com"))
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeDocumentExists {
		t.Fatalf("expected DOCUMENT_ALREADY_EXISTS, got %v", err)
	}
	if setup.provider.createCalls != 0 {
		t.Fatalf("provider must not be called for duplicate document")
	}
}

func TestCreateClientAdminProviderFailureLeavesNoLocalState(t *testing.T) {
	setup := newServiceTestSetup(t)
	setup.provider.createErr = pkgerrors.New(pkgerrors.CodeProvider, "provider unavailable")

	_, err := setup.service.CreateClientAdmin(context.Background(), samplePersonaRequest("marco@example.com"))
	if err == nil {
		t.Fatalf("expected provider error to propagate")
	}
	if setup.userRepo.created != nil || setup.clientRepo.created != nil {
		t.Fatalf("provider failure must not leave local writes")
	}
	if len(setup.dispatcher.jobs) != 0 {
		t.Fatalf("provider failure must not enqueue jobs")
	}
}

func TestCreateClientAdminDeletesProviderAccountOnTxFailure(t *testing.T) {
	setup := newServiceTestSetup(t)
	setup.userRepo.createErr = pkgerrors.New(pkgerrors.CodeInternal, "insert failed")

	_, err := setup.service.CreateClientAdmin(context.Background(), samplePersonaRequest("marco@example.com"))
	if err == nil {
		t.Fatalf("expected transaction failure to propagate")
	}

	// The provisioned account must be rolled back, otherwise the email
	// stays registered at the provider with no local row behind it.
	if len(setup.provider.deleted) != 1 || setup.provider.deleted[0] != "uid-new" {
		t.Fatalf("expected provider account deleted, got %v", setup.provider.deleted)
	}
	if len(setup.dispatcher.jobs) != 0 {
		t.Fatalf("tx failure must not enqueue jobs")
	}
}

func TestUpdateExtraDataCompletesProfile(t *testing.T) {
	setup := newServiceTestSetup(t)
	user := existingClienteUser("cliente@example.com")
	setup.userRepo.add(user)

	dto, err := setup.service.UpdateExtraData(context.Background(), *user.AuthID, UpdateExtraDataRequest{
		FirstName:      "Lucía",
		LastName:       "Fernández",
		ClientType:     enums.ClientTypePersona,
		DocumentType:   enums.DocumentTypeDNI,
		DocumentNumber: "70123456",
	})
	if err != nil {
		t.Fatalf("update extra data failed: %v", err)
	}

	patch, ok := setup.userRepo.patched[user.ID]
	if !ok {
		t.Fatalf("expected personal fields patched")
	}
	if patch.DocumentNumber != "70123456" {
		t.Fatalf("document patch mismatch: %+v", patch)
	}
	if got := setup.clientRepo.completed[user.Client.ID]; got != enums.ClientTypePersona {
		t.Fatalf("expected client marked complete as Persona, got %q", got)
	}
	if len(setup.clientRepo.upsertedCompany) != 0 {
		t.Fatalf("Persona flow must not touch company records")
	}
	if dto.ID != user.ID {
		t.Fatalf("unexpected result user")
	}
}

func TestUpdateExtraDataEmpresaUpsertsCompany(t *testing.T) {
	setup := newServiceTestSetup(t)
	user := existingClienteUser("empresa@example.com")
	setup.userRepo.add(user)

	_, err := setup.service.UpdateExtraData(context.Background(), *user.AuthID, UpdateExtraDataRequest{
		FirstName:      "Rosa",
		LastName:       "Mamani",
		ClientType:     enums.ClientTypeEmpresa,
		DocumentType:   enums.DocumentTypeRUC,
		DocumentNumber: "20987654321",
		CompanyName:    strptr("Textiles Andinos SAC"),
		ContactName:    strptr("Rosa Mamani"),
	})
	if err != nil {
		t.Fatalf("update extra data failed: %v", err)
	}

	company, ok := setup.clientRepo.upsertedCompany[user.Client.ID]
	if !ok || company[0] != "Textiles Andinos SAC" {
		t.Fatalf("expected company upsert, got %v", setup.clientRepo.upsertedCompany)
	}
}

func TestUpdateExtraDataRejectsForeignDocument(t *testing.T) {
	setup := newServiceTestSetup(t)
	user := existingClienteUser("cliente@example.com")
	setup.userRepo.add(user)
	holder := existingClienteUser("otro@example.com")
	holder.DocumentNumber = strptr("70123456")
	setup.userRepo.add(holder)

	_, err := setup.service.UpdateExtraData(context.Background(), *user.AuthID, UpdateExtraDataRequest{
		FirstName:      "Lucía",
		LastName:       "Fernández",
		ClientType:     enums.ClientTypePersona,
		DocumentType:   enums.DocumentTypeDNI,
		DocumentNumber: "70123456",
	})
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeDocumentExists {
		t.Fatalf("expected DOCUMENT_ALREADY_EXISTS, got %v", err)
	}
	if len(setup.userRepo.patched) != 0 {
		t.Fatalf("conflict must not mutate the user")
	}
	if len(setup.clientRepo.completed) != 0 {
		t.Fatalf("conflict must not mutate the client")
	}
}

func TestResetPasswordChangeFlag(t *testing.T) {
	setup := newServiceTestSetup(t)
	userID := uuid.New()

	if err := setup.service.ResetPasswordChangeFlag(context.Background(), userID); err != nil {
		t.Fatalf("expected flag reset to succeed, got %v", err)
	}
	if value, ok := setup.clientRepo.flagSet[userID]; !ok || value {
		t.Fatalf("expected needs_password_change cleared")
	}
}

func TestResetPasswordChangeFlagUnknownUser(t *testing.T) {
	setup := newServiceTestSetup(t)
	setup.clientRepo.flagErr = gormErrRecordNotFound()

	err := setup.service.ResetPasswordChangeFlag(context.Background(), uuid.New())
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeClientNotFound {
		t.Fatalf("expected CLIENT_NOT_FOUND, got %v", err)
	}
}

func TestListCustomersRejectsInvalidTypeFilter(t *testing.T) {
	setup := newServiceTestSetup(t)
	bad := enums.ClientType("Cooperativa")

	_, err := setup.service.ListCustomers(context.Background(), ListCustomersParams{ClientType: &bad})
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListCustomersReturnsPage(t *testing.T) {
	setup := newServiceTestSetup(t)
	row := existingClienteUser("cliente@example.com")
	setup.clientRepo.listRows = []pkgmodels.User{*row}
	setup.clientRepo.listTotal = 7

	page, err := setup.service.ListCustomers(context.Background(), ListCustomersParams{})
	if err != nil {
		t.Fatalf("list customers failed: %v", err)
	}
	if page.Total != 7 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: total=%d items=%d", page.Total, len(page.Items))
	}
	if page.Items[0].Email != "cliente@example.com" {
		t.Fatalf("unexpected item: %+v", page.Items[0])
	}
}

func gormErrRecordNotFound() error {
	return gorm.ErrRecordNotFound
}
