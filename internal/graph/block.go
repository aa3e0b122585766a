package graph

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/san-kum/blocksim/internal/lti"
)

type Kind int

const (
	KindGain Kind = iota
	KindConstant
	KindStep
	KindSummer
	KindUnitDelay
	KindIntegrator
	KindComparator
	KindTF
)

var kindNames = [...]string{
	KindGain:       "gain",
	KindConstant:   "constant",
	KindStep:       "step",
	KindSummer:     "summer",
	KindUnitDelay:  "unit_delay",
	KindIntegrator: "integrator",
	KindComparator: "comparator",
	KindTF:         "tf",
}

// legacy wire names produced by older diagram editors
var kindAliases = map[string]Kind{
	"ganho":             KindGain,
	"constante":         KindConstant,
	"degrau":            KindStep,
	"soma":              KindSummer,
	"sum":               KindSummer,
	"atraso":            KindUnitDelay,
	"delay":             KindUnitDelay,
	"integrador":        KindIntegrator,
	"comparador":        KindComparator,
	"ft":                KindTF,
	"transfer_function": KindTF,
}

// ParseKind never fails: unrecognized names are a pass-through gain.
func ParseKind(s string) Kind {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k)
		}
	}
	if k, ok := kindAliases[s]; ok {
		return k
	}
	return KindGain
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindGain]
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	*k = ParseKind(string(text))
	return nil
}

// Kinds lists every canonical kind name.
func Kinds() []string {
	return kindNames[:]
}

// ID names a block. JSON numbers are accepted and kept as their decimal text.
type ID string

// Sink is the pseudo-node whose inputs are summed into the observed output.
const Sink ID = "sink"

const legacySink ID = "saida"

func (id ID) IsSink() bool {
	return id == Sink || id == legacySink
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Block is one node of a diagram. Pointer fields distinguish an explicit
// zero from an omitted parameter that takes the per-kind default.
type Block struct {
	ID    ID        `yaml:"id" json:"id" validate:"required"`
	Kind  Kind      `yaml:"kind" json:"kind"`
	K     *float64  `yaml:"k,omitempty" json:"k,omitempty"`
	Value float64   `yaml:"value,omitempty" json:"value,omitempty"`
	Amp   *float64  `yaml:"amp,omitempty" json:"amp,omitempty"`
	T0    float64   `yaml:"t0,omitempty" json:"t0,omitempty"`
	Signs []float64 `yaml:"signs,omitempty" json:"signs,omitempty"`
	Num   []float64 `yaml:"num,omitempty" json:"num,omitempty"`
	Den   []float64 `yaml:"den,omitempty" json:"den,omitempty"`
}

// UnmarshalJSON also accepts the legacy "tipo" and "valor" keys.
func (b *Block) UnmarshalJSON(data []byte) error {
	type plain Block
	aux := struct {
		*plain
		Tipo  *Kind    `json:"tipo"`
		Type  *Kind    `json:"type"`
		Valor *float64 `json:"valor"`
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.Tipo != nil:
		b.Kind = *aux.Tipo
	case aux.Type != nil:
		b.Kind = *aux.Type
	}
	if aux.Valor != nil {
		b.Value = *aux.Valor
	}
	return nil
}

func Float(v float64) *float64 { return &v }

// Gain returns k, defaulting to 1 for gains and -1 for the legacy
// summer and comparator combination weight.
func (b *Block) Gain() float64 {
	if b.K != nil {
		return *b.K
	}
	switch b.Kind {
	case KindSummer, KindComparator:
		return -1
	default:
		return 1
	}
}

func (b *Block) Amplitude() float64 {
	if b.Amp != nil {
		return *b.Amp
	}
	return 1
}

// TF returns the embedded transfer function with per-kind defaults:
// 1/(s+1) for tf blocks, 1/1 for comparators.
func (b *Block) TF() lti.TransferFunction {
	num, den := b.Num, b.Den
	if num == nil {
		num = []float64{1}
	}
	if den == nil {
		if b.Kind == KindComparator {
			den = []float64{1}
		} else {
			den = []float64{1, 1}
		}
	}
	return lti.New(num, den)
}

// Dynamic reports whether the output at t depends on private state
// computed at t-h rather than on the current input alone.
func (b *Block) Dynamic() bool {
	switch b.Kind {
	case KindTF, KindIntegrator, KindUnitDelay:
		return true
	case KindComparator:
		return len(b.TF().Den) > 1
	default:
		return false
	}
}

// Weights returns the combination weight of each of n inputs, in
// predecessor order. A summer with declared signs uses them (missing
// entries count +1). A summer without signs and a comparator weight
// their second input by Gain(). Every other kind sums its inputs.
func (b *Block) Weights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	switch {
	case b.Kind == KindSummer && len(b.Signs) > 0:
		for i := 0; i < n && i < len(b.Signs); i++ {
			w[i] = b.Signs[i]
		}
	case b.Kind == KindSummer, b.Kind == KindComparator:
		if n > 1 {
			w[1] = b.Gain()
		}
	}
	return w
}

func (b Block) Clone() Block {
	c := b
	if b.K != nil {
		c.K = Float(*b.K)
	}
	if b.Amp != nil {
		c.Amp = Float(*b.Amp)
	}
	c.Signs = cloneFloats(b.Signs)
	c.Num = cloneFloats(b.Num)
	c.Den = cloneFloats(b.Den)
	return c
}

func (b *Block) String() string {
	var s strings.Builder
	s.WriteString(string(b.ID))
	s.WriteString(" (")
	s.WriteString(b.Kind.String())
	switch b.Kind {
	case KindGain, KindSummer, KindComparator:
		if b.Kind != KindSummer || len(b.Signs) == 0 {
			s.WriteString(" k=")
			s.WriteString(strconv.FormatFloat(b.Gain(), 'g', -1, 64))
		}
	case KindConstant:
		s.WriteString(" value=")
		s.WriteString(strconv.FormatFloat(b.Value, 'g', -1, 64))
	case KindStep:
		s.WriteString(" amp=")
		s.WriteString(strconv.FormatFloat(b.Amplitude(), 'g', -1, 64))
	case KindTF:
		s.WriteString(" ")
		s.WriteString(b.TF().String())
	}
	s.WriteString(")")
	return s.String()
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	c := make([]float64, len(v))
	copy(c, v)
	return c
}
