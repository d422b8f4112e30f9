package bash

import (
	"encoding/binary"

	"github.com/pkg/errors"

	stb "stb34101.dev"
)

// 6-bit command codes, padded with the bits 01.
const (
	cmdNull = 0x01
	cmdKey  = 0x05
	cmdData = 0x09
	cmdText = 0x0D
	cmdOut  = 0x11
)

// prg command in progress, for guarding Step calls.
type prgMode int

const (
	modeNone prgMode = iota
	modeAbsorb
	modeSqueeze
	modeEncr
	modeDecr
)

// PRG is the programmable sponge bash-prg. A state is parameterised by
// the security level l and the capacity factor d; a state seeded with a
// key may additionally encrypt and decrypt. All stream operations may be
// continued across multiple Step calls until another command starts.
type PRG struct {
	s     [StateSize]byte
	pos   int
	rate  int
	l, d  int
	keyed bool
	mode  prgMode
}

// NewPRG seeds a programmable sponge with an annotation and an optional
// key. Lengths of ann and key must be multiples of 4 not exceeding 60
// bytes; a non-empty key must carry at least l/8 bytes.
func NewPRG(l, d int, ann, key []byte) (*PRG, error) {
	if l != 128 && l != 192 && l != 256 {
		return nil, errors.Errorf("bash: unsupported level %d", l)
	}
	if d != 1 && d != 2 {
		return nil, errors.Errorf("bash: unsupported capacity factor %d", d)
	}
	if err := checkAnnKey(l, ann, key); err != nil {
		return nil, err
	}
	p := &PRG{l: l, d: d}
	p.seed(ann, key)
	binary.LittleEndian.PutUint64(p.s[StateSize-8:], uint64(l/4+d))
	return p, nil
}

func checkAnnKey(l int, ann, key []byte) error {
	if len(ann)%4 != 0 || len(ann) > 60 {
		return errors.Wrap(stb.ErrBadInput, "bash: bad annotation length")
	}
	if len(key)%4 != 0 || len(key) > 60 {
		return errors.Wrap(stb.ErrBadInput, "bash: bad key length")
	}
	if len(key) != 0 && len(key) < l/8 {
		return errors.Wrap(stb.ErrBadInput, "bash: key too short for level")
	}
	return nil
}

// seed XORs the header octet, annotation and key into the front of the
// state and repositions the buffer offset behind them.
func (p *PRG) seed(ann, key []byte) {
	p.s[0] ^= byte(len(ann)*4 + len(key)/4)
	for i, b := range ann {
		p.s[1+i] ^= b
	}
	for i, b := range key {
		p.s[1+len(ann)+i] ^= b
	}
	p.pos = 1 + len(ann) + len(key)
	if len(key) != 0 {
		p.keyed = true
	}
	if p.keyed {
		p.rate = StateSize - p.l*(2+p.d)/16
	} else {
		p.rate = StateSize - p.d*p.l/4
	}
	p.mode = modeNone
}

// commit seals the current epoch: the command code lands at the buffer
// offset, the rate boundary is marked and the state is permuted.
func (p *PRG) commit(code byte) {
	p.s[p.pos] ^= code
	p.s[p.rate] ^= 0x80
	F(&p.s)
	p.pos = 0
}

// Restart re-seeds the state with a fresh annotation and key without
// losing the accumulated history. Restarting with a key upgrades a
// keyless state to keyed.
func (p *PRG) Restart(ann, key []byte) error {
	if err := checkAnnKey(p.l, ann, key); err != nil {
		return err
	}
	if len(key) != 0 {
		p.commit(cmdKey)
	} else {
		p.commit(cmdNull)
	}
	p.seed(ann, key)
	return nil
}

// AbsorbStart begins an absorbing command.
func (p *PRG) AbsorbStart() {
	p.commit(cmdData)
	p.mode = modeAbsorb
}

// AbsorbStep feeds data into the running absorb command.
func (p *PRG) AbsorbStep(data []byte) {
	if p.mode != modeAbsorb {
		panic("bash: AbsorbStep outside an absorb command")
	}
	for _, b := range data {
		if p.pos == p.rate {
			F(&p.s)
			p.pos = 0
		}
		p.s[p.pos] ^= b
		p.pos++
	}
}

// Absorb feeds data in a single absorb command.
func (p *PRG) Absorb(data []byte) {
	p.AbsorbStart()
	p.AbsorbStep(data)
}

// SqueezeStart begins an output command.
func (p *PRG) SqueezeStart() {
	p.commit(cmdOut)
	p.mode = modeSqueeze
}

// SqueezeStep fills buf with output of the running squeeze command.
func (p *PRG) SqueezeStep(buf []byte) {
	if p.mode != modeSqueeze {
		panic("bash: SqueezeStep outside a squeeze command")
	}
	for i := range buf {
		if p.pos == p.rate {
			F(&p.s)
			p.pos = 0
		}
		buf[i] = p.s[p.pos]
		p.pos++
	}
}

// Squeeze fills buf in a single output command.
func (p *PRG) Squeeze(buf []byte) {
	p.SqueezeStart()
	p.SqueezeStep(buf)
}

// EncrStart begins an encryption command. Only keyed states encrypt.
func (p *PRG) EncrStart() error {
	if !p.keyed {
		return errors.Wrap(stb.ErrBadInput, "bash: encrypting on a keyless state")
	}
	p.commit(cmdText)
	p.mode = modeEncr
	return nil
}

// EncrStep encrypts buf in place: the plaintext is absorbed and the
// updated state bytes become the ciphertext.
func (p *PRG) EncrStep(buf []byte) {
	if p.mode != modeEncr {
		panic("bash: EncrStep outside an encrypt command")
	}
	for i := range buf {
		if p.pos == p.rate {
			F(&p.s)
			p.pos = 0
		}
		p.s[p.pos] ^= buf[i]
		buf[i] = p.s[p.pos]
		p.pos++
	}
}

// Encr encrypts buf in place in a single command.
func (p *PRG) Encr(buf []byte) error {
	if err := p.EncrStart(); err != nil {
		return err
	}
	p.EncrStep(buf)
	return nil
}

// DecrStart begins a decryption command. Only keyed states decrypt.
func (p *PRG) DecrStart() error {
	if !p.keyed {
		return errors.Wrap(stb.ErrBadInput, "bash: decrypting on a keyless state")
	}
	p.commit(cmdText)
	p.mode = modeDecr
	return nil
}

// DecrStep decrypts buf in place: the ciphertext replaces the state
// bytes and the recovered plaintext is returned in buf.
func (p *PRG) DecrStep(buf []byte) {
	if p.mode != modeDecr {
		panic("bash: DecrStep outside a decrypt command")
	}
	for i := range buf {
		if p.pos == p.rate {
			F(&p.s)
			p.pos = 0
		}
		ct := buf[i]
		buf[i] = p.s[p.pos] ^ ct
		p.s[p.pos] = ct
		p.pos++
	}
}

// Decr decrypts buf in place in a single command.
func (p *PRG) Decr(buf []byte) error {
	if err := p.DecrStart(); err != nil {
		return err
	}
	p.DecrStep(buf)
	return nil
}

// Ratchet makes the current state unrecoverable from any future one:
// the pre-image of the permuted state is folded back in, so inverting
// the permutation no longer rewinds the sponge.
func (p *PRG) Ratchet() {
	var t [StateSize]byte
	copy(t[:], p.s[:])
	p.commit(cmdNull)
	for i := range p.s {
		p.s[i] ^= t[i]
	}
	stb.Wipe(t[:])
}

// Wipe zeroises the sponge state.
func (p *PRG) Wipe() {
	stb.Wipe(p.s[:])
	p.pos, p.mode, p.keyed = 0, modeNone, false
}
