package audio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/youpy/go-wav"
)

// Center is the 8-bit amplitude that represents silence.
const Center = 128

// Source is a read-only table of 8-bit sounds. Every sound is split into beats of
// SamplesPerBeat samples.
type Source interface {
	Value(sample, pos int) uint8
	Len(sample int) int
	Beats(sample int) int
	NumSamples() int
	SamplesPerBeat() int
}

type Sound struct {
	Name  string
	Data  []uint8
	Beats int
}

// Table is the Source used by both the host and the device. Lookups for unknown
// sounds fall back to the first sound.
type Table struct {
	sounds         []*Sound
	samplesPerBeat int
}

func NewTable(samplesPerBeat int, sounds ...*Sound) *Table {
	if samplesPerBeat < 1 {
		samplesPerBeat = 1
	}
	return &Table{sounds: sounds, samplesPerBeat: samplesPerBeat}
}

func (t *Table) sound(id int) *Sound {
	if id < 0 || id >= len(t.sounds) {
		id = 0
	}
	if len(t.sounds) == 0 {
		return &Sound{}
	}
	return t.sounds[id]
}

// Value returns the amplitude at pos. Positions outside the sound wrap around.
func (t *Table) Value(sample, pos int) uint8 {
	data := t.sound(sample).Data
	if len(data) == 0 {
		return Center
	}
	return data[wrap(pos, len(data))]
}

func (t *Table) Len(sample int) int { return len(t.sound(sample).Data) }

func (t *Table) Beats(sample int) int {
	if b := t.sound(sample).Beats; b > 0 {
		return b
	}
	return 1
}

func (t *Table) NumSamples() int     { return len(t.sounds) }
func (t *Table) SamplesPerBeat() int { return t.samplesPerBeat }
func (t *Table) Sounds() []*Sound    { return t.sounds }

func wrap(pos, n int) int {
	pos %= n
	if pos < 0 {
		pos += n
	}
	return pos
}

// retriggerRatios are beat multiples; 4/3 and 2/3 give the triplet feel.
var retriggerRatios = [...]float64{4, 3, 2, 4. / 3, 1, 2. / 3, 1. / 2, 1. / 4, 1. / 8, 1. / 16}

// RetriggerLengths returns the retrigger table, in ticks, for the given beat length.
func RetriggerLengths(samplesPerBeat int) []int {
	lengths := make([]int, len(retriggerRatios))
	for i, r := range retriggerRatios {
		lengths[i] = int(math.Round(float64(samplesPerBeat) * r))
		if lengths[i] < 1 {
			lengths[i] = 1
		}
	}
	return lengths
}

// LoadSound reads the first channel of a WAV file as unsigned 8-bit samples.
func LoadSound(file string, beats int) (*Sound, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	snd := Sound{Name: file, Beats: beats}
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		for _, sample := range samples {
			v := r.IntValue(sample, 0)
			if format.BitsPerSample == 8 {
				snd.Data = append(snd.Data, uint8(v))
			} else {
				snd.Data = append(snd.Data, FloatToU8(PCMValue(v, format.BitsPerSample)))
			}
		}
	}
	return &snd, nil
}

// PCMValue scales a value read by go-wav into [-1, 1]. 8-bit data is unsigned,
// wider data is signed. Float data arrives scaled to 32-bit integers.
func PCMValue(v int, bitsPerSample uint16) float64 {
	switch {
	case bitsPerSample == 0:
		return 0
	case bitsPerSample == 8:
		return float64(v-Center) / Center
	default:
		return math.Max(-1, math.Min(1, float64(v)/float64(int64(1)<<(bitsPerSample-1))))
	}
}

// FloatToU8 maps [-1, 1] onto [0, 255] with 128 as zero.
func FloatToU8(v float64) uint8 {
	n := math.Round(v*127) + Center
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

var tableMagic = [4]byte{'C', 'H', 'O', 'P'}

const tableVersion = 1

var errBadTable = errors.New("not a sample table")

// WriteTo encodes the table in the .tbl format read by ReadTable.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	if len(t.sounds) > math.MaxUint8 {
		return 0, fmt.Errorf("too many sounds: %d", len(t.sounds))
	}
	cw := &countWriter{w: bufio.NewWriter(w)}
	cw.write(tableMagic[:])
	cw.write([]byte{tableVersion})
	cw.u32(uint32(t.samplesPerBeat))
	cw.write([]byte{uint8(len(t.sounds))})
	for _, snd := range t.sounds {
		name := snd.Name
		if len(name) > math.MaxUint8 {
			name = name[:math.MaxUint8]
		}
		beats := snd.Beats
		if beats > math.MaxUint8 {
			beats = math.MaxUint8
		}
		cw.write([]byte{uint8(len(name))})
		cw.write([]byte(name))
		cw.write([]byte{uint8(beats)})
		cw.u32(uint32(len(snd.Data)))
		cw.write(snd.Data)
	}
	if cw.err == nil {
		cw.err = cw.w.Flush()
	}
	return cw.n, cw.err
}

type countWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countWriter) write(p []byte) {
	if c.err != nil {
		return
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
}

func (c *countWriter) u32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	c.write(buf[:])
}

// ReadTable decodes a table written by Table.WriteTo.
func ReadTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	var header struct {
		Magic          [4]byte
		Version        uint8
		SamplesPerBeat uint32
		Count          uint8
	}
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read table header: %w", err)
	}
	if header.Magic != tableMagic {
		return nil, errBadTable
	}
	if header.Version != tableVersion {
		return nil, fmt.Errorf("unsupported table version %d", header.Version)
	}
	sounds := make([]*Sound, header.Count)
	for i := range sounds {
		snd, err := readSound(br)
		if err != nil {
			return nil, fmt.Errorf("read sound %d: %w", i, err)
		}
		sounds[i] = snd
	}
	return NewTable(int(header.SamplesPerBeat), sounds...), nil
}

func readSound(r *bufio.Reader) (*Sound, error) {
	nameLen, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, err
	}
	beats, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return &Sound{Name: string(name), Beats: int(beats), Data: data}, nil
}

// OpenTable reads a .tbl file from disk.
func OpenTable(file string) (*Table, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return t, nil
}
