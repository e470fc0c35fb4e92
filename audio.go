// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// AudioFormat identifies the container/codec an AudioClip's bytes
// actually hold.
type AudioFormat uint8

// Recognized audio formats.
const (
	AudioFormatUnknown AudioFormat = iota
	AudioFormatVorbis
	AudioFormatPCM
	AudioFormatMP3
	AudioFormatAAC
)

func (f AudioFormat) String() string {
	switch f {
	case AudioFormatVorbis:
		return "Vorbis"
	case AudioFormatPCM:
		return "PCM"
	case AudioFormatMP3:
		return "MP3"
	case AudioFormatAAC:
		return "AAC"
	default:
		return "Unknown"
	}
}

// Extension returns the conventional file extension used when writing
// this format's bytes out unchanged.
func (f AudioFormat) Extension() string {
	switch f {
	case AudioFormatVorbis:
		return "ogg"
	case AudioFormatPCM:
		return "wav"
	case AudioFormatMP3:
		return "mp3"
	case AudioFormatAAC:
		return "m4a"
	default:
		return "bin"
	}
}

// SniffAudioFormat inspects the leading bytes of data and, failing a
// magic-byte match, falls back to the declared compressionFormat /
// legacy soundType.
func SniffAudioFormat(data []byte, compressionFormat int32, soundType int32) AudioFormat {
	if f := sniffMagic(data); f != AudioFormatUnknown {
		return f
	}
	if f := fromCompressionFormat(compressionFormat); f != AudioFormatUnknown {
		return f
	}
	return fromSoundType(soundType)
}

func sniffMagic(data []byte) AudioFormat {
	if bytes.HasPrefix(data, []byte("OggS")) {
		return AudioFormatVorbis
	}
	if bytes.HasPrefix(data, []byte("RIFF")) {
		return AudioFormatPCM
	}
	if bytes.HasPrefix(data, []byte("ID3")) {
		return AudioFormatMP3
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return AudioFormatMP3
	}
	if len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")) {
		return AudioFormatAAC
	}
	// Fall back to the general-purpose sniffer (gabriel-vasile/mimetype)
	// for containers whose magic this module doesn't hand-check, e.g.
	// alternate ID3 offsets or MP4 brand variants.
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("audio/ogg"):
		return AudioFormatVorbis
	case mt.Is("audio/wav") || mt.Is("audio/x-wav"):
		return AudioFormatPCM
	case mt.Is("audio/mpeg"):
		return AudioFormatMP3
	case mt.Is("audio/mp4") || mt.Is("audio/aac") || mt.Is("audio/x-m4a"):
		return AudioFormatAAC
	default:
		return AudioFormatUnknown
	}
}

// Legacy sound_type values.
const (
	legacySoundTypeOggVorbis int32 = 2
	legacySoundTypeVorbis    int32 = 9
	legacySoundTypeWAV       int32 = 1
	legacySoundTypeMPEG      int32 = 3
	legacySoundTypeACC       int32 = 11
)

func fromSoundType(soundType int32) AudioFormat {
	switch soundType {
	case legacySoundTypeOggVorbis, legacySoundTypeVorbis:
		return AudioFormatVorbis
	case legacySoundTypeWAV:
		return AudioFormatPCM
	case legacySoundTypeMPEG:
		return AudioFormatMP3
	case legacySoundTypeACC:
		return AudioFormatAAC
	default:
		return AudioFormatUnknown
	}
}

// Modern compression_format values.
const (
	compressionFormatPCM    int32 = 0
	compressionFormatVorbis int32 = 1
	compressionFormatADPCM  int32 = 2
	compressionFormatMP3    int32 = 3
)

func fromCompressionFormat(cf int32) AudioFormat {
	switch cf {
	case compressionFormatPCM:
		return AudioFormatPCM
	case compressionFormatVorbis:
		return AudioFormatVorbis
	case compressionFormatMP3:
		return AudioFormatMP3
	default:
		return AudioFormatUnknown
	}
}

// AudioFields are the fields this module reads from an already-
// interpreted AudioClip object, covering both the legacy and modern
// field layouts.
type AudioFields struct {
	Name              string         `json:"name"`
	Channels          int32          `json:"channels"`
	Frequency         int32          `json:"frequency"`
	BitsPerSample     int32          `json:"bits_per_sample"`
	CompressionFormat int32          `json:"compression_format"`
	SoundType         int32          `json:"sound_type"`
	Data              []byte         `json:"-"`
	Streaming         *StreamingInfo `json:"streaming,omitempty"`
}

// AudioFieldsFromObject extracts the fields ExtractAudio needs from an
// AudioClip's already-interpreted property mapping. Modern clips carry
// m_Channels/m_Frequency/m_CompressionFormat and an m_Resource record
// pointing at a sibling resource file; legacy clips carry m_Format/
// m_Type and inline m_AudioData.
func AudioFieldsFromObject(props *Mapping) (*AudioFields, error) {
	af := &AudioFields{}

	if v, ok := props.Get("m_Name"); ok {
		if s, err := v.AsString(); err == nil {
			af.Name = s
		}
	}

	intField := func(key string) int32 {
		v, ok := props.Get(key)
		if !ok {
			return 0
		}
		n, err := v.AsI64()
		if err != nil {
			return 0
		}
		return int32(n)
	}
	af.Channels = intField("m_Channels")
	af.Frequency = intField("m_Frequency")
	af.BitsPerSample = intField("m_BitsPerSample")
	af.CompressionFormat = intField("m_CompressionFormat")
	af.SoundType = intField("m_Type")

	if v, ok := props.Get("m_AudioData"); ok {
		b, err := v.AsBytes()
		if err != nil {
			return nil, err
		}
		af.Data = b
	}

	if res, ok := props.Get("m_Resource"); ok {
		if obj, err := res.AsObject(); err == nil {
			source, _ := obj.Get("m_Source")
			offset, _ := obj.Get("m_Offset")
			size, _ := obj.Get("m_Size")
			sourceStr, _ := source.AsString()
			offsetVal, _ := offset.AsI64()
			sizeVal, _ := size.AsI64()
			if sourceStr != "" {
				af.Streaming = &StreamingInfo{Path: sourceStr, Offset: uint64(offsetVal), Size: uint32(sizeVal)}
			}
		}
	}

	return af, nil
}

// WrapPCMAsWAV constructs a WAV container around raw little-endian PCM
// samples: RIFF/WAVE header, 16-byte fmt chunk, then the data chunk.
func WrapPCMAsWAV(pcm []byte, channels, frequency, bitsPerSample int32) ([]byte, error) {
	if channels <= 0 || frequency <= 0 {
		return nil, newErr(KindInvalidAudioProperties, "channels and frequency must be positive")
	}
	if bitsPerSample <= 0 {
		bitsPerSample = 16
	}

	blockAlign := channels * (bitsPerSample / 8)
	byteRate := frequency * blockAlign
	dataSize := uint32(len(pcm))
	fileSize := 36 + dataSize

	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, fileSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(frequency))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	buf.Write(pcm)

	return buf.Bytes(), nil
}

// DecodeADPCM is the declared fallback: without a real ADPCM decoder
// wired in, it produces 16-bit silence with one sample per input nibble,
// rounded down to a whole frame for the channel count the caller
// declares. A real IMA-ADPCM decoder can replace this without changing
// the interface.
func DecodeADPCM(data []byte, channels int32) ([]byte, error) {
	if channels <= 0 {
		return nil, newErr(KindInvalidAudioProperties, "channels must be positive")
	}
	// One IMA-ADPCM nibble encodes one 16-bit sample; emit silence of
	// matching duration (2 output bytes per input nibble).
	sampleCount := len(data) * 2 / int(channels)
	return make([]byte, sampleCount*int(channels)*2), nil
}

// ExtractAudio returns the artifact bytes and conventional extension for
// an AudioClip's raw data: containers that are already standalone files
// are passed through unchanged; raw PCM is wrapped in a WAV header.
func ExtractAudio(fields *AudioFields) (data []byte, extension string, err error) {
	format := SniffAudioFormat(fields.Data, fields.CompressionFormat, fields.SoundType)

	switch format {
	case AudioFormatVorbis, AudioFormatMP3, AudioFormatAAC:
		return fields.Data, format.Extension(), nil
	case AudioFormatPCM:
		if bytes.HasPrefix(fields.Data, []byte("RIFF")) {
			return fields.Data, "wav", nil
		}
		wav, err := WrapPCMAsWAV(fields.Data, fields.Channels, fields.Frequency, fields.BitsPerSample)
		if err != nil {
			return nil, "", err
		}
		return wav, "wav", nil
	default:
		return nil, "", wrapErr(KindUnsupportedFormat, fmt.Sprintf("unrecognized audio container for clip %q", fields.Name), nil)
	}
}
