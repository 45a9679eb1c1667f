package attachment_test

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gastaro/gastaro/internal/attachment"
)

func TestAttachment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Attachment Suite")
}

var _ = Describe("Storage", func() {
	var storage *attachment.Storage

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		var err error
		storage, err = attachment.NewStorage(GinkgoT().TempDir(), 5*1024*1024, logger)
		Expect(err).ToNot(HaveOccurred())
	})

	It("stores and reads back an image", func() {
		ref, err := storage.Save(strings.NewReader("fake-jpeg-bytes"), "image/jpeg")
		Expect(err).ToNot(HaveOccurred())
		Expect(ref).To(HaveSuffix(".jpg"))

		f, err := storage.Open(ref)
		Expect(err).ToNot(HaveOccurred())
		defer f.Close()

		content, err := io.ReadAll(f)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("fake-jpeg-bytes"))
	})

	It("rejects non-image content types", func() {
		_, err := storage.Save(strings.NewReader("%PDF-1.4"), "application/pdf")
		Expect(err).To(MatchError(attachment.ErrUnsupportedType))

		_, err = storage.Save(strings.NewReader("#!/bin/sh"), "application/x-sh")
		Expect(err).To(MatchError(attachment.ErrUnsupportedType))
	})

	It("refuses path traversal in references", func() {
		_, err := storage.Open("../etc/passwd")
		Expect(err).To(MatchError(attachment.ErrAttachmentNotFound))

		_, err = storage.Open("..%2f..%2fetc/passwd.png")
		Expect(err).To(MatchError(attachment.ErrAttachmentNotFound))
	})

	It("refuses references that are not generated names", func() {
		_, err := storage.Open("config.yml")
		Expect(err).To(MatchError(attachment.ErrAttachmentNotFound))

		_, err = storage.Open("not-a-uuid.png")
		Expect(err).To(MatchError(attachment.ErrAttachmentNotFound))
	})

	It("deletes a stored file", func() {
		ref, err := storage.Save(strings.NewReader("bytes"), "image/png")
		Expect(err).ToNot(HaveOccurred())

		Expect(storage.Delete(ref)).To(Succeed())

		_, err = storage.Open(ref)
		Expect(err).To(MatchError(attachment.ErrAttachmentNotFound))
	})

	It("maps references back to content types", func() {
		ref, err := storage.Save(strings.NewReader("bytes"), "image/webp")
		Expect(err).ToNot(HaveOccurred())

		Expect(attachment.ContentTypeFor(ref)).To(Equal("image/webp"))
	})
})
