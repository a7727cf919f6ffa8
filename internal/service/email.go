package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Mailer is the slice of the mail client the service needs.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type EmailService interface {
	SendOrderConfirmation(ctx context.Context, order *OrderConfirmation) error
}

type OrderConfirmation struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	Items         []OrderItem
	Total         decimal.Decimal
	Street        string
	City          string
	Postcode      string
}

type OrderItem struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

type emailService struct {
	log    *slog.Logger
	mailer Mailer
}

func NewEmailService(log *slog.Logger, mailer Mailer) EmailService {
	return &emailService{log: log, mailer: mailer}
}

// SendOrderConfirmation renders the order summary mail and hands it to the
// mail client.
func (s *emailService) SendOrderConfirmation(ctx context.Context, order *OrderConfirmation) error {
	const op = "service.EmailService.SendOrderConfirmation"
	logger := s.log.With(slog.String("op", op), slog.String("orderNumber", order.OrderNumber))

	html, err := renderOrderConfirmation(order)
	if err != nil {
		logger.Error("failed to render mail", slog.Any("error", err))
		return fmt.Errorf("%s: failed to render mail: %w", op, err)
	}

	subject := fmt.Sprintf("Confirmation de votre commande #%s", order.OrderNumber)
	if err := s.mailer.Send(ctx, order.CustomerEmail, subject, html); err != nil {
		logger.Error("failed to send mail", slog.Any("error", err))
		return fmt.Errorf("%s: failed to send mail: %w", op, err)
	}

	logger.Info("order confirmation sent")
	return nil
}

type orderMailData struct {
	OrderNumber  string
	CustomerName string
	Items        []orderMailItem
	Total        string
	Street       string
	City         string
	Postcode     string
}

type orderMailItem struct {
	Name      string
	Quantity  int
	LineTotal string
}

var orderMailTemplate = template.Must(template.New("order-confirmation").Parse(`<!DOCTYPE html>
<html>
  <head><meta charset="utf-8"><title>Confirmation de commande</title></head>
  <body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Merci pour votre commande !</h1>
    <p>Bonjour {{.CustomerName}},</p>
    <p>Nous avons bien re&ccedil;u votre commande #{{.OrderNumber}}.</p>

    <h2>D&eacute;tails de la commande</h2>
    {{range .Items}}
    <p>{{.Name}} x {{.Quantity}}<br><span style="color: #666;">{{.LineTotal}}&euro;</span></p>
    {{end}}
    <p style="font-weight: bold; text-align: right;">Total : {{.Total}}&euro;</p>

    <h2>Adresse de livraison</h2>
    <p>{{.CustomerName}}<br>{{.Street}}<br>{{.Postcode}} {{.City}}</p>

    <p style="font-size: 14px; color: #666;">
      Si vous avez des questions concernant votre commande,<br>
      n'h&eacute;sitez pas &agrave; nous contacter &agrave; contact@lachabroderie.fr
    </p>
    <p style="font-size: 14px; color: #666;">La Chabroderie<br>Fait avec amour en France</p>
  </body>
</html>`))

func renderOrderConfirmation(order *OrderConfirmation) (string, error) {
	data := orderMailData{
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		Total:        order.Total.StringFixed(2),
		Street:       order.Street,
		City:         order.City,
		Postcode:     order.Postcode,
	}
	for _, item := range order.Items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		data.Items = append(data.Items, orderMailItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: lineTotal.StringFixed(2),
		})
	}

	var buf bytes.Buffer
	if err := orderMailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
