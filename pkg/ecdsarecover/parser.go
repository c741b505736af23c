package ecdsarecover

import (
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Record is one entry of a batch file: a message, its signature and,
// optionally, the public key it should verify under.
type Record struct {
	Message   []byte
	Signature *Signature
	PublicKey *PublicKey // nil when the record has no public key
}

// RecordParser defines the interface for parsing records from various sources.
type RecordParser interface {
	// ParseRecords parses records from a file path.
	ParseRecords(source string) ([]*Record, error)

	// DecodeRecords parses records from a reader.
	DecodeRecords(r io.Reader) ([]*Record, error)
}

// JSONParser parses records from JSON files.
type JSONParser struct {
	MessageField    string // Field name for the message text (default: "message")
	MessageHexField string // Field name for a hex message (default: "message_hex")
	SignatureField  string // Field name for the signature (default: "signature")
	PublicKeyField  string // Field name for the public key (default: "public_key")
}

// ParseRecords parses records from a JSON file.
//
// Expected format:
//
//	[
//	  {"message": "abc", "signature": "<hex or base64>", "public_key": "02..."},
//	  {"message_hex": "0x616263", "signature": "<hex or base64>"}
//	]
func (p *JSONParser) ParseRecords(jsonFile string) ([]*Record, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()
	return p.DecodeRecords(file)
}

// DecodeRecords parses a JSON array of records from r.
func (p *JSONParser) DecodeRecords(r io.Reader) ([]*Record, error) {
	var items []map[string]string
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	messageField := fieldOrDefault(p.MessageField, "message")
	messageHexField := fieldOrDefault(p.MessageHexField, "message_hex")
	signatureField := fieldOrDefault(p.SignatureField, "signature")
	publicKeyField := fieldOrDefault(p.PublicKeyField, "public_key")

	records := make([]*Record, 0, len(items))
	for i, item := range items {
		fields := recordFields{
			signature: item[signatureField],
			publicKey: item[publicKeyField],
		}
		if v, ok := item[messageHexField]; ok {
			fields.messageHex, fields.hasMessageHex = v, true
		}
		if v, ok := item[messageField]; ok {
			fields.message, fields.hasMessage = v, true
		}
		record, err := fields.toRecord()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// CSVParser parses records from CSV files with a header row.
type CSVParser struct {
	MessageCol    string // Column name for the message text (default: "message")
	MessageHexCol string // Column name for a hex message (default: "message_hex")
	SignatureCol  string // Column name for the signature (default: "signature")
	PublicKeyCol  string // Column name for the public key (default: "public_key")
}

// ParseRecords parses records from a CSV file.
func (p *CSVParser) ParseRecords(csvFile string) ([]*Record, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return p.DecodeRecords(file)
}

// DecodeRecords parses CSV records from r.
func (p *CSVParser) DecodeRecords(r io.Reader) ([]*Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	messageIdx, messageHexIdx, signatureIdx, publicKeyIdx := -1, -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case fieldOrDefault(p.MessageCol, "message"):
			messageIdx = i
		case fieldOrDefault(p.MessageHexCol, "message_hex"):
			messageHexIdx = i
		case fieldOrDefault(p.SignatureCol, "signature"):
			signatureIdx = i
		case fieldOrDefault(p.PublicKeyCol, "public_key"):
			publicKeyIdx = i
		}
	}
	if signatureIdx == -1 {
		return nil, errors.New("missing required column: signature")
	}
	if messageIdx == -1 && messageHexIdx == -1 {
		return nil, errors.New("missing required column: message or message_hex")
	}

	var records []*Record
	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		fields := recordFields{signature: column(row, signatureIdx), publicKey: column(row, publicKeyIdx)}
		if v := column(row, messageHexIdx); v != "" {
			fields.messageHex, fields.hasMessageHex = v, true
		} else if messageIdx >= 0 && messageIdx < len(row) {
			fields.message, fields.hasMessage = row[messageIdx], true
		}
		record, err := fields.toRecord()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// ParserForFile picks a parser from the file extension; anything that is
// not .csv is treated as JSON.
func ParserForFile(path string) RecordParser {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return &CSVParser{}
	}
	return &JSONParser{}
}

// ParseSignatureJSON decodes a signature envelope of the form
// {"signature": "<base64 or hex>"}.
func ParseSignatureJSON(data []byte) (*Signature, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	raw, ok := envelope["signature"]
	if !ok {
		return nil, errors.New("JSON does not contain 'signature' key")
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("signature must be a string: %w", err)
	}
	b, err := decodeSignatureValue(value)
	if err != nil {
		return nil, err
	}
	return ParseSignature(b)
}

type recordFields struct {
	message, messageHex       string
	hasMessage, hasMessageHex bool
	signature, publicKey      string
}

func (f recordFields) toRecord() (*Record, error) {
	record := &Record{}

	switch {
	case f.hasMessageHex:
		msg, err := DecodeHex(f.messageHex)
		if err != nil {
			return nil, fmt.Errorf("failed to parse message_hex: %w", err)
		}
		record.Message = msg
	case f.hasMessage:
		record.Message = []byte(f.message)
	default:
		return nil, errors.New("missing message or message_hex field")
	}

	if f.signature == "" {
		return nil, errors.New("missing signature field")
	}
	sigBytes, err := decodeSignatureValue(f.signature)
	if err != nil {
		return nil, err
	}
	if record.Signature, err = ParseSignature(sigBytes); err != nil {
		return nil, fmt.Errorf("failed to parse signature: %w", err)
	}

	if f.publicKey != "" {
		if record.PublicKey, err = ParsePublicKeyHex(f.publicKey); err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
	}
	return record, nil
}

// decodeSignatureValue accepts a hex signature of 64 or 65 bytes and falls
// back to standard base64.
func decodeSignatureValue(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if b, err := DecodeHex(value); err == nil && (len(b) == SignatureSize || len(b) == CompactSignatureSize) {
		return b, nil
	}
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: signature is neither hex nor base64", ErrMalformedHex)
	}
	return b, nil
}

func fieldOrDefault(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
