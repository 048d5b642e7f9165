package nmea

import "strings"

// Sentence identifies a supported NMEA sentence type. GP/GL/GN talker
// variants of a type map to the same value.
type Sentence int

const (
	sentenceNone Sentence = iota
	SentenceRMC
	SentenceGLL
	SentenceGGA
	SentenceGSA
	SentenceGSV
)

func (s Sentence) String() string {
	switch s {
	case SentenceRMC:
		return "RMC"
	case SentenceGLL:
		return "GLL"
	case SentenceGGA:
		return "GGA"
	case SentenceGSA:
		return "GSA"
	case SentenceGSV:
		return "GSV"
	default:
		return "none"
	}
}

// sentenceLimit is the longest supported sentence in characters (based on a
// fully populated GGA sentence).
const sentenceLimit = 90

type parserState int

const (
	stateIdle parserState = iota
	stateInSentence
	stateInChecksum
)

// Parser reconstructs NMEA sentences from a raw byte stream, validates their
// checksums and dispatches field decoding into a Fix.
//
// One Parser instance is owned per receiver session. The per-byte path does
// not allocate; the fixed sentence buffer is the only working storage.
type Parser struct {
	fix *Fix

	state    parserState
	buf      [sentenceLimit]byte
	bufLen   int
	crc      byte
	ckDigits [2]byte
	ckLen    int
	// Characters seen since '$', including dropped line noise. Drives the
	// overflow rule.
	charCount int
}

// NewParser returns a parser feeding the given fix record.
func NewParser(fix *Fix) *Parser {
	return &Parser{fix: fix}
}

// Fix returns the record the parser decodes into.
func (p *Parser) Fix() *Fix {
	return p.fix
}

// FeedByte advances the parser by one input byte. It returns the sentence
// type and true when the byte completes a sentence that passed its checksum
// and was fully decoded; every other outcome is (0, false).
//
// FeedByte never blocks and never fails: framing errors, checksum mismatches
// and undecodable fields are absorbed into the Fix counters. Callers must
// drain all available bytes each polling cycle; pacing is the caller's
// concern.
func (p *Parser) FeedByte(b byte) (Sentence, bool) {
	// '$' starts a sentence from any state, including mid-sentence: the
	// previous fragment can never resolve once a new start marker arrives.
	if b == '$' {
		p.state = stateInSentence
		p.bufLen = 0
		p.crc = 0
		p.ckLen = 0
		p.charCount = 0
		return sentenceNone, false
	}
	if p.state == stateIdle {
		return sentenceNone, false
	}

	p.charCount++
	if p.charCount > sentenceLimit {
		// Over-length sentence: abandon without reporting, resume on next '$'.
		p.state = stateIdle
		return sentenceNone, false
	}

	// Line noise outside printable ASCII is dropped (it still counted toward
	// the overflow rule above).
	if b < 10 || b > 126 {
		return sentenceNone, false
	}

	switch p.state {
	case stateInSentence:
		if b == '*' {
			p.state = stateInChecksum
			return sentenceNone, false
		}
		if p.bufLen < sentenceLimit {
			p.buf[p.bufLen] = b
			p.bufLen++
		}
		p.crc ^= b

	case stateInChecksum:
		p.ckDigits[p.ckLen] = b
		p.ckLen++
		if p.ckLen < 2 {
			return sentenceNone, false
		}
		p.state = stateIdle
		want, ok := hexPair(p.ckDigits[0], p.ckDigits[1])
		if !ok {
			// Garbage where the checksum digits should be: framing error,
			// abandoned silently like an overflow.
			return sentenceNone, false
		}
		if want != p.crc {
			p.fix.CRCFails++
			return sentenceNone, false
		}
		p.fix.CleanSentences++
		return p.dispatch()
	}
	return sentenceNone, false
}

// dispatch splits the validated payload into fields and runs the decoder for
// its identifier. Runs once per clean sentence, outside the per-byte path.
func (p *Parser) dispatch() (Sentence, bool) {
	fields := strings.Split(string(p.buf[:p.bufLen]), ",")
	typ := sentenceType(fields[0])
	if typ == sentenceNone {
		// Clean but unsupported; counted, not decoded.
		return sentenceNone, false
	}

	var ok bool
	switch typ {
	case SentenceRMC:
		ok = decodeRMC(p.fix, fields)
	case SentenceGLL:
		ok = decodeGLL(p.fix, fields)
	case SentenceGGA:
		ok = decodeGGA(p.fix, fields)
	case SentenceGSA:
		ok = decodeGSA(p.fix, fields)
	case SentenceGSV:
		ok = decodeGSV(p.fix, fields)
	}
	if !ok {
		return sentenceNone, false
	}
	p.fix.ParsedSentences++
	return typ, true
}

// sentenceType resolves a 5-character talker+type identifier to the closed
// Sentence enum. Unknown talkers and types resolve to none.
func sentenceType(id string) Sentence {
	if len(id) != 5 {
		return sentenceNone
	}
	switch id[:2] {
	case "GP", "GL", "GN":
	default:
		return sentenceNone
	}
	switch id[2:] {
	case "RMC":
		return SentenceRMC
	case "GLL":
		return SentenceGLL
	case "GGA":
		return SentenceGGA
	case "GSA":
		return SentenceGSA
	case "GSV":
		return SentenceGSV
	default:
		return sentenceNone
	}
}

func hexDigit(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	default:
		return 0, false
	}
}

func hexPair(hi, lo byte) (byte, bool) {
	h, ok := hexDigit(hi)
	if !ok {
		return 0, false
	}
	l, ok := hexDigit(lo)
	if !ok {
		return 0, false
	}
	return h<<4 | l, true
}
