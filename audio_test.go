// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"bytes"
	"testing"
)

func TestSniffAudioFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want AudioFormat
	}{
		{"ogg", []byte("OggS\x00\x02\x00\x00"), AudioFormatVorbis},
		{"riff", []byte("RIFF\x24\x08\x00\x00"), AudioFormatPCM},
		{"mp4/aac", []byte("\x00\x00\x00\x20ftyp"), AudioFormatAAC},
		{"id3", []byte("ID3\x03\x00\x00\x00\x00"), AudioFormatMP3},
		{"mpeg-sync", []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}, AudioFormatMP3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SniffAudioFormat(tc.data, 0, 0)
			if got != tc.want {
				t.Errorf("SniffAudioFormat(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestSniffAudioFormatFallsBackToDeclared(t *testing.T) {
	got := SniffAudioFormat([]byte{0, 1, 2, 3}, compressionFormatVorbis, 0)
	if got != AudioFormatVorbis {
		t.Errorf("SniffAudioFormat() = %v, want Vorbis (declared fallback)", got)
	}
}

func TestWrapPCMAsWAVLayout(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	wav, err := WrapPCMAsWAV(pcm, 2, 44100, 16)
	if err != nil {
		t.Fatalf("WrapPCMAsWAV() = %v", err)
	}
	if !bytes.HasPrefix(wav, []byte("RIFF")) {
		t.Error("WAV must start with RIFF")
	}
	if string(wav[8:12]) != "WAVE" {
		t.Errorf("WAV[8:12] = %q, want WAVE", wav[8:12])
	}
	if string(wav[12:16]) != "fmt " {
		t.Errorf("WAV[12:16] = %q, want \"fmt \"", wav[12:16])
	}
	if !bytes.HasSuffix(wav, pcm) {
		t.Error("WAV must end with the original PCM bytes verbatim")
	}
}

func TestWrapPCMAsWAVInvalidProperties(t *testing.T) {
	if _, err := WrapPCMAsWAV([]byte{1, 2}, 0, 44100, 16); err == nil {
		t.Fatal("WrapPCMAsWAV() with 0 channels should fail")
	}
	if _, err := WrapPCMAsWAV([]byte{1, 2}, 2, 0, 16); err == nil {
		t.Fatal("WrapPCMAsWAV() with 0 frequency should fail")
	}
}

func TestExtractAudioPassesThroughContainers(t *testing.T) {
	fields := &AudioFields{Name: "Clip", Data: []byte("OggS\x00\x02\x00\x00rest-of-stream")}
	data, ext, err := ExtractAudio(fields)
	if err != nil {
		t.Fatalf("ExtractAudio() = %v", err)
	}
	if ext != "ogg" {
		t.Errorf("ExtractAudio() ext = %q, want ogg", ext)
	}
	if string(data) != string(fields.Data) {
		t.Error("ExtractAudio() must pass Vorbis bytes through unchanged")
	}
}

func TestExtractAudioWrapsRawPCM(t *testing.T) {
	fields := &AudioFields{Name: "Clip", Channels: 1, Frequency: 8000, BitsPerSample: 16, Data: []byte{1, 2, 3, 4}}
	data, ext, err := ExtractAudio(fields)
	if err != nil {
		t.Fatalf("ExtractAudio() = %v", err)
	}
	if ext != "wav" {
		t.Errorf("ExtractAudio() ext = %q, want wav", ext)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Error("ExtractAudio() for raw PCM must produce a RIFF container")
	}
}

func TestAudioFieldsFromObject(t *testing.T) {
	props := NewMapping()
	props.Set("m_Name", NewString("Clip"))
	props.Set("m_Channels", NewInt(2, 32))
	props.Set("m_Frequency", NewInt(44100, 32))
	props.Set("m_BitsPerSample", NewInt(16, 32))
	props.Set("m_CompressionFormat", NewInt(1, 32))
	props.Set("m_AudioData", NewBytes([]byte("OggS\x00\x02")))

	resource := NewMapping()
	resource.Set("m_Source", NewString("archive:/CAB-x/CAB-x.resource"))
	resource.Set("m_Offset", NewInt(128, 64))
	resource.Set("m_Size", NewInt(4096, 64))
	props.Set("m_Resource", NewObject(resource))

	af, err := AudioFieldsFromObject(props)
	if err != nil {
		t.Fatalf("AudioFieldsFromObject() = %v", err)
	}
	if af.Name != "Clip" || af.Channels != 2 || af.Frequency != 44100 {
		t.Errorf("fields = %+v, want Clip/2/44100", af)
	}
	if string(af.Data) != "OggS\x00\x02" {
		t.Errorf("Data = %q, want inline audio bytes", af.Data)
	}
	if af.Streaming == nil || af.Streaming.Offset != 128 || af.Streaming.Size != 4096 {
		t.Errorf("Streaming = %+v, want offset 128 size 4096", af.Streaming)
	}
}

func TestDecodeADPCMSilenceFallback(t *testing.T) {
	out, err := DecodeADPCM(make([]byte, 10), 2)
	if err != nil {
		t.Fatalf("DecodeADPCM() = %v", err)
	}
	for _, b := range out {
		if b != 0 {
			t.Fatal("DecodeADPCM fallback must produce silence")
		}
	}
}
