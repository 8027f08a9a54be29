package admin

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"
)

const qrCodeSize = 512

func (s *Server) botDeepLink() string {
	if s.cfg.TelegramBotUsername == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s", s.cfg.TelegramBotUsername)
}

func (s *Server) handleQRCodePage(c echo.Context) error {
	link := s.botDeepLink()
	if link == "" {
		return c.HTML(http.StatusOK, renderPage("QR Code", "<p>Set TELEGRAM_BOT_USERNAME to generate a QR code.</p>"))
	}
	body := fmt.Sprintf(`
<p>Scan to start chatting: %s</p>
<img src="/qr-code/download" alt="QR code">
<p><a href="/qr-code/download">Download</a></p>`, esc(link))
	return c.HTML(http.StatusOK, renderPage("QR Code", body))
}

func (s *Server) handleQRCodeDownload(c echo.Context) error {
	link := s.botDeepLink()
	if link == "" {
		return echo.NewHTTPError(http.StatusNotFound, "no bot username configured")
	}
	png, err := qrcode.Encode(link, qrcode.Medium, qrCodeSize)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
