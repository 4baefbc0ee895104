package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	wavHeaderSize = 44
	bitsPerSample = 16
)

// WAVHeader returns the canonical 44-byte RIFF header for dataLen bytes of
// 16-bit PCM.
func WAVHeader(dataLen, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid format: rate=%d channels=%d", sampleRate, channels)
	}
	if dataLen < 0 {
		return nil, fmt.Errorf("negative data length %d", dataLen)
	}
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	h := make([]byte, wavHeaderSize)
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(36+dataLen))
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(h[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(h[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(h[34:36], bitsPerSample)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(dataLen))
	return h, nil
}

// EncodeWAV writes a complete WAV file.
func EncodeWAV(w io.Writer, pcm []byte, sampleRate, channels int) error {
	h, err := WAVHeader(len(pcm), sampleRate, channels)
	if err != nil {
		return err
	}
	if _, err := w.Write(h); err != nil {
		return err
	}
	_, err = w.Write(pcm)
	return err
}

// WAVSize is the encoded size of dataLen bytes of PCM.
func WAVSize(dataLen int) int { return wavHeaderSize + dataLen }
