package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"muster/internal/logger"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// QRCodeService renders URLs into scannable PNGs under <publicDir>/qrcodes,
// and produces data URLs for clients that want to inline the image.
type QRCodeService struct {
	publicDir string
	log       logger.Logger
}

func NewQRCodeService(publicDir string) *QRCodeService {
	return &QRCodeService{
		publicDir: publicDir,
		log:       logger.New("QRCodeService"),
	}
}

// WriteFile renders url into qrcodes/<name>.png and returns the public path.
func (s *QRCodeService) WriteFile(url, name string) (string, error) {
	log := s.log.Function("WriteFile")

	dir := filepath.Join(s.publicDir, "qrcodes")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", log.Err("failed to create qrcodes directory", err, "dir", dir)
	}

	file := filepath.Join(dir, name+".png")
	if err := qrcode.WriteFile(url, qrcode.High, qrSize, file); err != nil {
		return "", log.Err("failed to render QR code", err, "url", url)
	}

	return "/qrcodes/" + name + ".png", nil
}

// DataURL renders url into an inline base64 PNG data URL.
func (s *QRCodeService) DataURL(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.High, qrSize)
	if err != nil {
		return "", s.log.Function("DataURL").Err("failed to encode QR code", err, "url", url)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RemoveFile deletes a previously rendered QR PNG. Missing files are fine.
func (s *QRCodeService) RemoveFile(name string) {
	file := filepath.Join(s.publicDir, "qrcodes", name+".png")
	if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
		s.log.Function("RemoveFile").Er("failed to remove QR file", err, "file", file)
	}
}

// RegistrationFileName is the stable artifact name for a personnel's
// registration QR, so rotation overwrites and revocation can clean up.
func RegistrationFileName(personnelID int) string {
	return fmt.Sprintf("register-%d", personnelID)
}
