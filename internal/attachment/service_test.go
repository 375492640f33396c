package attachment_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/centrushr/hr-management/internal"
	"github.com/centrushr/hr-management/internal/attachment"
	"github.com/centrushr/hr-management/internal/auth"
	"github.com/centrushr/hr-management/internal/core/events"
	"github.com/centrushr/hr-management/internal/travel"
)

type mockAttachmentRepository struct {
	attachments map[int64]*attachment.Attachment
	nextID      int64

	createError error
	getError    error
	deleteError error
}

func newMockAttachmentRepository() *mockAttachmentRepository {
	return &mockAttachmentRepository{
		attachments: make(map[int64]*attachment.Attachment),
		nextID:      1,
	}
}

func (m *mockAttachmentRepository) Create(a *attachment.Attachment) error {
	if m.createError != nil {
		return m.createError
	}
	a.ID = m.nextID
	m.nextID++
	m.attachments[a.ID] = a
	return nil
}

func (m *mockAttachmentRepository) GetByID(id int64) (*attachment.Attachment, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	a, ok := m.attachments[id]
	if !ok {
		return nil, internal.ErrAttachmentNotFound
	}
	return a, nil
}

func (m *mockAttachmentRepository) ListByTravelRequest(travelRequestID int64) ([]*attachment.Attachment, error) {
	var out []*attachment.Attachment
	for _, a := range m.attachments {
		if a.TravelRequestID == travelRequestID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAttachmentRepository) Delete(id int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	if _, ok := m.attachments[id]; !ok {
		return internal.ErrAttachmentNotFound
	}
	delete(m.attachments, id)
	return nil
}

type mockTravelReader struct {
	requests map[int64]*travel.TravelRequest
}

func (m *mockTravelReader) GetByID(id int64) (*travel.TravelRequest, error) {
	request, ok := m.requests[id]
	if !ok {
		return nil, internal.ErrTravelNotFound
	}
	return request, nil
}

type mockDirectory struct {
	names map[int64]string
}

func (m *mockDirectory) EmployeeName(id int64) (string, error) {
	name, ok := m.names[id]
	if !ok {
		return "", internal.ErrEmployeeNotFound
	}
	return name, nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) {
	m.published = append(m.published, event)
}

var _ = Describe("AttachmentService", func() {
	var (
		mockRepo     *mockAttachmentRepository
		travelReader *mockTravelReader
		publisher    *mockPublisher
		service      *attachment.Service
		uploader     *auth.User
	)

	const (
		approvedID = int64(1)
		pendingID  = int64(2)
	)

	BeforeEach(func() {
		mockRepo = newMockAttachmentRepository()
		travelReader = &mockTravelReader{requests: map[int64]*travel.TravelRequest{
			approvedID: {ID: approvedID, TravelerID: 10, Destination: "Curitiba", Status: travel.StatusApproved},
			pendingID:  {ID: pendingID, TravelerID: 10, Destination: "Recife", Status: travel.StatusPending},
		}}
		publisher = &mockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		directory := &mockDirectory{names: map[int64]string{10: "Maria Souza"}}
		service = attachment.NewService(mockRepo, travelReader, directory, publisher, logger)

		uploader = &auth.User{
			ID:          5,
			Name:        "Carlos Lima",
			Role:        auth.RoleStandard,
			IsActive:    true,
			Permissions: []string{auth.CapTravelAttachments},
		}
	})

	batch := func(files ...attachment.UploadFileDTO) attachment.UploadBatchDTO {
		return attachment.UploadBatchDTO{Files: files}
	}

	Describe("Upload", func() {
		Context("to an approved request", func() {
			It("should store the file with the uploader stamped", func() {
				result, err := service.Upload(uploader, approvedID, batch(attachment.UploadFileDTO{
					FileName:    "passagem.pdf",
					ContentType: "application/pdf",
					Content:     []byte("pdf bytes"),
				}))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Stored).To(HaveLen(1))
				Expect(result.Skipped).To(BeEmpty())

				stored := mockRepo.attachments[result.Stored[0].ID]
				Expect(stored.UploadedByID).To(Equal(uploader.ID))
				Expect(stored.UploadedByName).To(Equal("Carlos Lima"))
				Expect(stored.SizeBytes).To(Equal(int64(len("pdf bytes"))))
			})

			It("should strip content from the returned metadata", func() {
				result, err := service.Upload(uploader, approvedID, batch(attachment.UploadFileDTO{
					FileName: "voucher.pdf",
					Content:  []byte("blob"),
				}))

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Stored[0].Content).To(BeNil())
				Expect(mockRepo.attachments[result.Stored[0].ID].Content).NotTo(BeEmpty())
			})

			It("should publish one event per stored file", func() {
				_, err := service.Upload(uploader, approvedID, batch(
					attachment.UploadFileDTO{FileName: "ida.pdf", Content: []byte("a")},
					attachment.UploadFileDTO{FileName: "volta.pdf", Content: []byte("b")},
				))

				Expect(err).NotTo(HaveOccurred())
				Expect(publisher.published).To(HaveLen(2))

				event, ok := publisher.published[0].(*events.AttachmentAddedEvent)
				Expect(ok).To(BeTrue())
				Expect(event.TravelRequestID).To(Equal(approvedID))
				Expect(event.UploaderID).To(Equal(uploader.ID))
				Expect(event.TravelerName).To(Equal("Maria Souza"))
			})

			Context("with an oversized file in the batch", func() {
				It("should skip it and keep storing the rest", func() {
					// Given: one file over the 10MB cap next to a small one
					oversized := bytes.Repeat([]byte("x"), attachment.MaxAttachmentSize+1)

					result, err := service.Upload(uploader, approvedID, batch(
						attachment.UploadFileDTO{FileName: "gigante.zip", Content: oversized},
						attachment.UploadFileDTO{FileName: "recibo.pdf", Content: []byte("ok")},
					))

					// Then: the batch succeeds with a per-file skip entry
					Expect(err).NotTo(HaveOccurred())
					Expect(result.Stored).To(HaveLen(1))
					Expect(result.Stored[0].FileName).To(Equal("recibo.pdf"))
					Expect(result.Skipped).To(HaveLen(1))
					Expect(result.Skipped[0].FileName).To(Equal("gigante.zip"))
					Expect(result.Skipped[0].Reason).To(ContainSubstring("10MB"))
					Expect(publisher.published).To(HaveLen(1))
				})
			})
		})

		Context("to a request that is not approved", func() {
			It("should refuse the whole batch", func() {
				_, err := service.Upload(uploader, pendingID, batch(attachment.UploadFileDTO{
					FileName: "passagem.pdf",
					Content:  []byte("pdf"),
				}))

				Expect(err).To(MatchError(internal.ErrRequestNotApproved))
				Expect(mockRepo.attachments).To(BeEmpty())
				Expect(publisher.published).To(BeEmpty())
			})
		})

		Context("without the attachment capability", func() {
			It("should be forbidden", func() {
				stranger := &auth.User{ID: 8, Role: auth.RoleStandard, IsActive: true}

				_, err := service.Upload(stranger, approvedID, batch(attachment.UploadFileDTO{
					FileName: "passagem.pdf",
					Content:  []byte("pdf"),
				}))

				Expect(err).To(MatchError(internal.ErrForbidden))
			})
		})

		Context("with an empty batch", func() {
			It("should fail validation", func() {
				_, err := service.Upload(uploader, approvedID, attachment.UploadBatchDTO{})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			})
		})

		Context("with an unknown travel request", func() {
			It("should surface not found", func() {
				_, err := service.Upload(uploader, 404, batch(attachment.UploadFileDTO{
					FileName: "passagem.pdf",
					Content:  []byte("pdf"),
				}))

				Expect(err).To(MatchError(internal.ErrTravelNotFound))
			})
		})
	})

	Describe("List", func() {
		It("should return metadata without blobs", func() {
			_, err := service.Upload(uploader, approvedID, batch(attachment.UploadFileDTO{
				FileName: "passagem.pdf",
				Content:  []byte("pdf bytes"),
			}))
			Expect(err).NotTo(HaveOccurred())

			attachments, err := service.List(uploader, approvedID)

			Expect(err).NotTo(HaveOccurred())
			Expect(attachments).To(HaveLen(1))
			Expect(attachments[0].Content).To(BeNil())
			Expect(attachments[0].SizeBytes).To(Equal(int64(len("pdf bytes"))))
		})
	})

	Describe("Get", func() {
		It("should include the content", func() {
			result, err := service.Upload(uploader, approvedID, batch(attachment.UploadFileDTO{
				FileName: "passagem.pdf",
				Content:  []byte("pdf bytes"),
			}))
			Expect(err).NotTo(HaveOccurred())

			a, err := service.Get(uploader, result.Stored[0].ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(a.Content).To(Equal([]byte("pdf bytes")))
		})
	})

	Describe("Delete", func() {
		It("should remove the attachment", func() {
			result, err := service.Upload(uploader, approvedID, batch(attachment.UploadFileDTO{
				FileName: "passagem.pdf",
				Content:  []byte("pdf"),
			}))
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(uploader, result.Stored[0].ID)).To(Succeed())
			Expect(mockRepo.attachments).To(BeEmpty())
		})

		It("should surface not found for an unknown id", func() {
			err := service.Delete(uploader, 404)
			Expect(err).To(MatchError(internal.ErrAttachmentNotFound))
		})
	})
})
