package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

type BlockType string

const (
	BlockButton    BlockType = "BUTTON"
	BlockForm      BlockType = "FORM"
	BlockAddress   BlockType = "ADDRESS"
	BlockAIChat    BlockType = "AI_CHAT"
	BlockWhatsApp  BlockType = "WHATSAPP"
	BlockMultiStep BlockType = "MULTI_STEP"
	BlockRedirect  BlockType = "REDIRECT"
)

// BlockContent é o payload de um tipo de bloco. Implementações ficam neste
// pacote; cada tipo tem seu próprio formato.
type BlockContent interface {
	BlockType() BlockType
	Validate() error
	sealed()
}

// Block é um item da página pública.
type Block struct {
	ID      string
	Content BlockContent
}

func (b Block) Type() BlockType {
	if b.Content == nil {
		return ""
	}
	return b.Content.BlockType()
}

type blockWire struct {
	ID      string          `json:"id"`
	Type    BlockType       `json:"type"`
	Content json.RawMessage `json:"content"`
}

func newContent(t BlockType) (BlockContent, bool) {
	switch t {
	case BlockButton:
		return &ButtonBlock{}, true
	case BlockForm:
		return &FormBlock{}, true
	case BlockAddress:
		return &AddressBlock{}, true
	case BlockAIChat:
		return &AIChatBlock{}, true
	case BlockWhatsApp:
		return &WhatsAppBlock{}, true
	case BlockMultiStep:
		return &MultiStepBlock{}, true
	case BlockRedirect:
		return &RedirectBlock{}, true
	}
	return nil, false
}

// NewBlock valida o conteúdo e atribui um id quando ausente.
func NewBlock(id string, content BlockContent) (Block, error) {
	if content == nil {
		return Block{}, errors.New("block content is required")
	}
	if _, ok := content.(*UnknownBlock); ok {
		return Block{}, fmt.Errorf("%w: %s", ErrUnknownBlock, content.BlockType())
	}
	if err := content.Validate(); err != nil {
		return Block{}, fmt.Errorf("%s block: %w", content.BlockType(), err)
	}
	if id == "" {
		id = uuid.New().String()
	}
	return Block{ID: id, Content: content}, nil
}

// DecodeBlock constrói um bloco vindo do editor. Campos que não pertencem ao
// tipo declarado e tipos desconhecidos são rejeitados.
func DecodeBlock(data []byte) (Block, error) {
	var w blockWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Block{}, fmt.Errorf("invalid block: %w", err)
	}

	content, ok := newContent(w.Type)
	if !ok {
		return Block{}, fmt.Errorf("%w: %q", ErrUnknownBlock, w.Type)
	}

	if len(w.Content) > 0 && !bytes.Equal(bytes.TrimSpace(w.Content), []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(w.Content))
		dec.DisallowUnknownFields()
		if err := dec.Decode(content); err != nil {
			return Block{}, fmt.Errorf("%s block: %w", w.Type, err)
		}
	}
	return NewBlock(w.ID, content)
}

// DecodeBlocks aplica DecodeBlock a uma lista vinda do editor.
func DecodeBlocks(raw []json.RawMessage) ([]Block, error) {
	blocks := make([]Block, 0, len(raw))
	for i, r := range raw {
		b, err := DecodeBlock(r)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	var content json.RawMessage = []byte("null")
	if u, ok := b.Content.(*UnknownBlock); ok {
		if len(u.Raw) > 0 {
			content = u.Raw
		}
	} else if b.Content != nil {
		raw, err := json.Marshal(b.Content)
		if err != nil {
			return nil, err
		}
		content = raw
	}
	return json.Marshal(blockWire{ID: b.ID, Type: b.Type(), Content: content})
}

// UnmarshalJSON é tolerante: usado ao ler páginas já salvas. Tipos
// desconhecidos viram UnknownBlock, que não é renderizado.
func (b *Block) UnmarshalJSON(data []byte) error {
	var w blockWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	b.ID = w.ID

	content, ok := newContent(w.Type)
	if !ok {
		b.Content = &UnknownBlock{Kind: w.Type, Raw: w.Content}
		return nil
	}
	if len(w.Content) > 0 {
		if err := json.Unmarshal(w.Content, content); err != nil {
			return fmt.Errorf("%s block: %w", w.Type, err)
		}
	}
	b.Content = content
	return nil
}

type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

var fieldTypes = map[string]bool{
	"text": true, "email": true, "tel": true, "textarea": true, "select": true, "date": true,
}

func validateFields(fields []FormField) error {
	seen := map[string]bool{}
	for i, f := range fields {
		if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Label) == "" {
			return fmt.Errorf("field %d: name and label are required", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q is duplicated", f.Name)
		}
		seen[f.Name] = true
		if !fieldTypes[f.Type] {
			return fmt.Errorf("field %q: unsupported type %q", f.Name, f.Type)
		}
		if f.Type == "select" && len(f.Options) == 0 {
			return fmt.Errorf("field %q: select needs options", f.Name)
		}
	}
	return nil
}

// Todo formulário precisa coletar o mínimo para criar um lead.
func requireLeadFields(fields []FormField) error {
	has := map[string]bool{}
	for _, f := range fields {
		has[f.Name] = true
	}
	if !has["name"] || !has["phone"] {
		return errors.New("form must collect name and phone")
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || raw == "" {
		return errors.New("url is invalid")
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return errors.New("url is invalid")
		}
	case "tel", "mailto":
	default:
		return fmt.Errorf("url scheme %q is not allowed", u.Scheme)
	}
	return nil
}

type ButtonBlock struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Style string `json:"style,omitempty"`
}

func (*ButtonBlock) BlockType() BlockType { return BlockButton }
func (*ButtonBlock) sealed()              {}

func (c *ButtonBlock) Validate() error {
	if strings.TrimSpace(c.Label) == "" {
		return errors.New("label is required")
	}
	return validateURL(c.URL)
}

type FormBlock struct {
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	Fields         []FormField `json:"fields"`
	SubmitLabel    string      `json:"submitLabel,omitempty"`
	SuccessMessage string      `json:"successMessage,omitempty"`
}

func (*FormBlock) BlockType() BlockType { return BlockForm }
func (*FormBlock) sealed()              {}

func (c *FormBlock) Validate() error {
	if len(c.Fields) == 0 {
		return errors.New("fields are required")
	}
	if err := validateFields(c.Fields); err != nil {
		return err
	}
	return requireLeadFields(c.Fields)
}

type AddressBlock struct {
	Street   string `json:"street"`
	Number   string `json:"number,omitempty"`
	District string `json:"district,omitempty"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zipCode,omitempty"`
	MapsURL  string `json:"mapsUrl,omitempty"`
}

func (*AddressBlock) BlockType() BlockType { return BlockAddress }
func (*AddressBlock) sealed()              {}

func (c *AddressBlock) Validate() error {
	if strings.TrimSpace(c.Street) == "" || strings.TrimSpace(c.City) == "" {
		return errors.New("street and city are required")
	}
	if c.MapsURL != "" {
		return validateURL(c.MapsURL)
	}
	return nil
}

// AIChatBlock só configura o widget; a conversa roda num serviço externo.
type AIChatBlock struct {
	AssistantName string `json:"assistantName"`
	Greeting      string `json:"greeting"`
	Placeholder   string `json:"placeholder,omitempty"`
}

func (*AIChatBlock) BlockType() BlockType { return BlockAIChat }
func (*AIChatBlock) sealed()              {}

func (c *AIChatBlock) Validate() error {
	if strings.TrimSpace(c.AssistantName) == "" || strings.TrimSpace(c.Greeting) == "" {
		return errors.New("assistantName and greeting are required")
	}
	return nil
}

type WhatsAppBlock struct {
	Phone   string `json:"phone"`
	Message string `json:"message,omitempty"`
	Label   string `json:"label"`
}

func (*WhatsAppBlock) BlockType() BlockType { return BlockWhatsApp }
func (*WhatsAppBlock) sealed()              {}

func (c *WhatsAppBlock) Validate() error {
	if !IsValidPhone(c.Phone) {
		return errors.New("phone must be a valid phone number")
	}
	if strings.TrimSpace(c.Label) == "" {
		return errors.New("label is required")
	}
	return nil
}

// Link wa.me com DDI 55 quando o número vem só com DDD.
func (c *WhatsAppBlock) Link() string {
	phone := NormalizePhone(c.Phone)
	if len(phone) == 10 || len(phone) == 11 {
		phone = "55" + phone
	}
	link := "https://wa.me/" + phone
	if c.Message != "" {
		link += "?text=" + url.QueryEscape(c.Message)
	}
	return link
}

type FormStep struct {
	Title  string      `json:"title"`
	Fields []FormField `json:"fields"`
}

type MultiStepBlock struct {
	Title       string     `json:"title"`
	Steps       []FormStep `json:"steps"`
	SubmitLabel string     `json:"submitLabel,omitempty"`
}

func (*MultiStepBlock) BlockType() BlockType { return BlockMultiStep }
func (*MultiStepBlock) sealed()              {}

func (c *MultiStepBlock) Validate() error {
	if len(c.Steps) == 0 {
		return errors.New("steps are required")
	}
	var all []FormField
	for i, s := range c.Steps {
		if strings.TrimSpace(s.Title) == "" || len(s.Fields) == 0 {
			return fmt.Errorf("step %d: title and fields are required", i)
		}
		all = append(all, s.Fields...)
	}
	if err := validateFields(all); err != nil {
		return err
	}
	return requireLeadFields(all)
}

type RedirectBlock struct {
	URL          string `json:"url"`
	DelaySeconds int    `json:"delaySeconds,omitempty"`
}

func (*RedirectBlock) BlockType() BlockType { return BlockRedirect }
func (*RedirectBlock) sealed()              {}

func (c *RedirectBlock) Validate() error {
	if c.DelaySeconds < 0 || c.DelaySeconds > 60 {
		return errors.New("delaySeconds must be between 0 and 60")
	}
	return validateURL(c.URL)
}

// UnknownBlock preserva blocos salvos com um tipo que este serviço não conhece.
type UnknownBlock struct {
	Kind BlockType
	Raw  json.RawMessage
}

func (u *UnknownBlock) BlockType() BlockType { return u.Kind }
func (*UnknownBlock) sealed()                {}

func (u *UnknownBlock) Validate() error {
	return fmt.Errorf("%w: %q", ErrUnknownBlock, u.Kind)
}
