// Command dosrcli encodes text messages to WAV files of acoustic MFSK
// tones and decodes them back, optionally wrapping the payload in an
// AEAD envelope keyed by a shared symmetric key or a secp256k1 key pair.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/jeongseonghan/dosr-modem/internal/aead"
	"github.com/jeongseonghan/dosr-modem/internal/audio"
	"github.com/jeongseonghan/dosr-modem/internal/fec"
	"github.com/jeongseonghan/dosr-modem/internal/keyagreement"
	"github.com/jeongseonghan/dosr-modem/internal/modem"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "dosrcli"})

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encode":
		runEncode(os.Args[2:])
	case "decode":
		runDecode(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "dosrcli - acoustic MFSK modem encoder/decoder")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  dosrcli encode [flags] <message> <output.wav>")
	fmt.Fprintln(os.Stderr, "  dosrcli decode [flags] <input.wav>")
}

// sharedFlags holds the modem/crypto flag values common to both
// subcommands; bindSharedFlags registers them onto a FlagSet.
type sharedFlags struct {
	durationMs int
	sampleRate float64
	symKeyPath string
	privPath   string
	pubPath    string
	verbose    bool
	fecOn      bool
}

func bindSharedFlags(fs *pflag.FlagSet) *sharedFlags {
	sf := &sharedFlags{}
	fs.IntVarP(&sf.durationMs, "duration-ms", "d", 100, "duration of each frame in milliseconds")
	fs.Float64Var(&sf.sampleRate, "sample-rate", 44100.0, "sample rate in Hz")
	fs.StringVar(&sf.symKeyPath, "sym-key", "", "path to a 16-byte symmetric key file")
	fs.StringVar(&sf.privPath, "priv-key", "", "path to a raw 32-byte secp256k1 private key file")
	fs.StringVar(&sf.pubPath, "pub-key", "", "path to a SEC1-encoded secp256k1 public key file")
	fs.BoolVarP(&sf.verbose, "verbose", "v", false, "log sample, frame and byte counts")
	fs.BoolVar(&sf.fecOn, "fec", false, "wrap the payload in outer CRC-32 + Reed-Solomon(255,223) FEC before encoding")
	return sf
}

func (sf *sharedFlags) buildModem() (*modem.Modem, error) {
	cfg := modem.DefaultConfig()
	cfg.SampleRate = sf.sampleRate
	cfg.DurationS = float64(sf.durationMs) / 1000.0
	return modem.NewModem(cfg)
}

// buildCipher constructs the AEAD cipher selected by sf's flags, or
// nil if neither --sym-key nor --priv-key/--pub-key was given.
func (sf *sharedFlags) buildCipher() (*aead.Cipher, error) {
	switch {
	case sf.symKeyPath != "":
		if sf.privPath != "" || sf.pubPath != "" {
			return nil, fmt.Errorf("--sym-key cannot be combined with --priv-key/--pub-key")
		}
		key, err := os.ReadFile(sf.symKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read symmetric key: %w", err)
		}
		return aead.New(key)

	case sf.privPath != "" || sf.pubPath != "":
		if sf.privPath == "" || sf.pubPath == "" {
			return nil, fmt.Errorf("--priv-key and --pub-key must be given together")
		}
		privRaw, err := os.ReadFile(sf.privPath)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		pubRaw, err := os.ReadFile(sf.pubPath)
		if err != nil {
			return nil, fmt.Errorf("read public key: %w", err)
		}
		priv, err := keyagreement.ParsePrivateKey(privRaw)
		if err != nil {
			return nil, err
		}
		pub, err := keyagreement.ParsePublicKey(pubRaw)
		if err != nil {
			return nil, err
		}
		return keyagreement.NewCipherFromKeyPair(priv, pub)

	default:
		return nil, nil
	}
}

// wrapFEC appends a CRC-32 trailer and Reed-Solomon(255,223) parity to
// payload, producing the bytes that actually go through the modem.
func wrapFEC(payload []byte) ([]byte, error) {
	withCRC := fec.AppendCRC32(payload)
	rs, err := fec.NewRSEncoder()
	if err != nil {
		return nil, fmt.Errorf("build reed-solomon encoder: %w", err)
	}
	encoded, err := rs.Encode(withCRC)
	if err != nil {
		return nil, fmt.Errorf("reed-solomon encode: %w", err)
	}
	return encoded, nil
}

// unwrapFEC reverses wrapFEC: it checks the Reed-Solomon parity, strips
// the zero padding the encoder added to fill its data shards, and checks
// the CRC-32 trailer protecting the original payload.
func unwrapFEC(encoded []byte) ([]byte, error) {
	rs, err := fec.NewRSEncoder()
	if err != nil {
		return nil, fmt.Errorf("build reed-solomon encoder: %w", err)
	}
	withCRC, err := rs.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("reed-solomon decode: %w", err)
	}
	// The padding after the CRC trailer is all zero bytes, so the trailer
	// ends at or after the last non-zero byte; try each such length.
	for n := len(withCRC); n >= 4; n-- {
		if payload, ok := fec.VerifyCRC32(withCRC[:n]); ok {
			return payload, nil
		}
		if withCRC[n-1] != 0 {
			break
		}
	}
	return nil, fmt.Errorf("crc-32 mismatch after reed-solomon reconstruction")
}

func runEncode(args []string) {
	fs := pflag.NewFlagSet("encode", pflag.ExitOnError)
	sf := bindSharedFlags(fs)
	if err := fs.Parse(args); err != nil {
		logger.Fatal("parse flags", "err", err)
	}

	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: dosrcli encode [flags] <message> <output.wav>")
		os.Exit(1)
	}
	message, outputPath := fs.Arg(0), fs.Arg(1)

	m, err := sf.buildModem()
	if err != nil {
		logger.Fatal("build modem", "err", err)
	}
	cipher, err := sf.buildCipher()
	if err != nil {
		logger.Fatal("build cipher", "err", err)
	}

	payload := []byte(message)
	if sf.fecOn {
		payload, err = wrapFEC(payload)
		if err != nil {
			logger.Fatal("wrap FEC", "err", err)
		}
	}

	samples, err := m.Encode(payload, cipher)
	if err != nil {
		logger.Fatal("encode", "err", err)
	}

	if err := audio.WriteWAV(outputPath, samples, int(sf.sampleRate)); err != nil {
		logger.Fatal("write WAV", "err", err)
	}

	if sf.verbose {
		logger.Info("encoded", "samples", len(samples), "frames", len(samples)/m.SamplesPerFrame(), "output", outputPath)
	}
}

func runDecode(args []string) {
	fs := pflag.NewFlagSet("decode", pflag.ExitOnError)
	sf := bindSharedFlags(fs)
	if err := fs.Parse(args); err != nil {
		logger.Fatal("parse flags", "err", err)
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: dosrcli decode [flags] <input.wav>")
		os.Exit(1)
	}
	inputPath := fs.Arg(0)

	samples, sampleRate, err := audio.ReadWAV(inputPath)
	if err != nil {
		logger.Fatal("read WAV", "err", err)
	}

	cfg := modem.DefaultConfig()
	cfg.SampleRate = float64(sampleRate)
	cfg.DurationS = float64(sf.durationMs) / 1000.0
	m, err := modem.NewModem(cfg)
	if err != nil {
		logger.Fatal("build modem", "err", err)
	}

	cipher, err := sf.buildCipher()
	if err != nil {
		logger.Fatal("build cipher", "err", err)
	}

	decoded, err := m.Decode(samples, cipher)
	if err != nil {
		logger.Fatal("decode", "err", err)
	}
	if sf.fecOn {
		decoded, err = unwrapFEC(decoded)
		if err != nil {
			logger.Fatal("unwrap FEC", "err", err)
		}
	}

	if sf.verbose {
		logger.Info("decoded", "bytes", len(decoded))
	}
	fmt.Printf("Decoded message:\n%s\n", decoded)
}
