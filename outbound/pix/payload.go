package pix

import (
	"fmt"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"regexp"
	"ru-ticket/model"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	MaxTransactionIdLength = 25
	maxNameLength          = 25
	maxCityLength          = 15
	maxKeyLength           = 77
	maxFieldLength         = 99

	gui             = "br.gov.bcb.pix"
	merchantCode    = "0000"
	currencyBRL     = "986"
	countryCode     = "BR"
	formatIndicator = "01"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)
	validTxid       = regexp.MustCompile(`^[A-Za-z0-9]{1,25}$`)
)

// PayloadError reports a field the BR Code encoding cannot carry.
type PayloadError struct {
	Field  string
	Reason string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("pix payload: field %s %s", e.Field, e.Reason)
}

type Receiver struct {
	Key  string
	Name string
	City string
}

type Generator struct {
	Receiver Receiver
	Amount   model.Money

	TimeNow func() time.Time
}

func NewGenerator(receiver Receiver, amount model.Money) *Generator {
	return &Generator{Receiver: receiver, Amount: amount, TimeNow: time.Now}
}

type Reference struct {
	Payload       string
	Amount        model.Money
	ReceiverKey   string
	TransactionId string
}

// Reference builds the static payload for ticketId. The charged amount is
// always the generator's nominal Amount.
func (g *Generator) Reference(ticketId string) (Reference, error) {
	txid := g.TransactionId(ticketId)

	payload, err := Encode(g.Receiver, g.Amount, txid)
	if err != nil {
		return Reference{}, err
	}

	return Reference{
		Payload:       payload,
		Amount:        g.Amount,
		ReceiverKey:   g.Receiver.Key,
		TransactionId: txid,
	}, nil
}

// TransactionId keeps only ASCII letters and digits of ticketId, truncated to
// 25 characters. An id with nothing left falls back to T<unix millis>.
func (g *Generator) TransactionId(ticketId string) string {
	txid := SanitizeTransactionId(ticketId)
	if txid == "" {
		now := time.Now
		if g.TimeNow != nil {
			now = g.TimeNow
		}
		txid = "T" + strconv.FormatInt(now().UnixMilli(), 10)
	}
	return txid
}

func SanitizeTransactionId(v string) string {
	txid := nonAlphanumeric.ReplaceAllString(v, "")
	if len(txid) > MaxTransactionIdLength {
		txid = txid[:MaxTransactionIdLength]
	}
	return txid
}

func Encode(receiver Receiver, amount model.Money, txid string) (string, error) {
	key := strings.TrimSpace(receiver.Key)
	if key == "" || len(key) > maxKeyLength {
		return "", &PayloadError{Field: "key", Reason: "must have 1 to 77 characters"}
	}

	name, err := normalizeText(receiver.Name)
	if err != nil || name == "" || len(name) > maxNameLength {
		return "", &PayloadError{Field: "name", Reason: "must have 1 to 25 ASCII characters"}
	}

	city, err := normalizeText(receiver.City)
	if err != nil || city == "" || len(city) > maxCityLength {
		return "", &PayloadError{Field: "city", Reason: "must have 1 to 15 ASCII characters"}
	}

	if amount <= 0 {
		return "", &PayloadError{Field: "amount", Reason: "must be positive"}
	}

	if !validTxid.MatchString(txid) {
		return "", &PayloadError{Field: "transactionId", Reason: "must have 1 to 25 alphanumeric characters"}
	}

	merchantAccount, err := tlv("00", gui)
	if err != nil {
		return "", err
	}
	keyField, err := tlv("01", key)
	if err != nil {
		return "", err
	}
	additionalData, err := tlv("05", txid)
	if err != nil {
		return "", err
	}

	fields := []struct {
		id    string
		value string
	}{
		{"00", formatIndicator},
		{"26", merchantAccount + keyField},
		{"52", merchantCode},
		{"53", currencyBRL},
		{"54", amount.String()},
		{"58", countryCode},
		{"59", name},
		{"60", city},
		{"62", additionalData},
	}

	var b strings.Builder
	for _, f := range fields {
		field, err := tlv(f.id, f.value)
		if err != nil {
			return "", err
		}
		b.WriteString(field)
	}

	b.WriteString("6304")
	b.WriteString(fmt.Sprintf("%04X", crc16([]byte(b.String()))))

	return b.String(), nil
}

func tlv(id, value string) (string, error) {
	if len(value) > maxFieldLength {
		return "", &PayloadError{Field: id, Reason: "exceeds 99 bytes"}
	}
	return fmt.Sprintf("%s%02d%s", id, len(value), value), nil
}

// normalizeText upper-cases v and strips diacritics, rejecting anything that
// is still not printable ASCII afterwards.
func normalizeText(v string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, v)
	if err != nil {
		return "", err
	}

	out = strings.ToUpper(strings.TrimSpace(out))
	for _, r := range out {
		if r < 0x20 || r > 0x7E {
			return "", &PayloadError{Field: "text", Reason: "contains non ASCII characters"}
		}
	}
	return out, nil
}
