// Copyright (C) 2025 Logical Mechanism LLC
// SPDX-License-Identifier: GPL-3.0-only

// ptauctl drives one round of a powers-of-tau ceremony: init writes a
// genesis challenge, contribute reads a challenge and writes a response,
// and verify checks a response against the challenge it responds to.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/logical-mechanism/powersoftau/ceremony"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := zerolog.New(stderr).With().Timestamp().Logger()

	if len(args) < 1 {
		fmt.Fprintln(stderr, "usage: ptauctl <init|contribute|verify> [flags]")
		return 2
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], stdout, stderr, logger)
	case "contribute":
		return runContribute(args[1:], stdout, stderr, logger)
	case "verify":
		return runVerify(args[1:], stdout, stderr, logger)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		return 2
	}
}

func runInit(args []string, stdout, stderr io.Writer, logger zerolog.Logger) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Uint("n", 10, "log2 of the number of supported multiplication gates")
	path := fs.String("challenge", "challenge", "path to write the genesis challenge to")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	params, err := ceremony.NewParameters(*n)
	if err != nil {
		logger.Error().Err(err).Msg("invalid parameters")
		return 1
	}

	f, err := os.OpenFile(*path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		logger.Error().Err(err).Str("path", *path).Msg("unable to create challenge file")
		return 1
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	acc := ceremony.NewIdentityAccumulator(params)
	if err := ceremony.WriteChallenge(w, ceremony.BlankHash(), acc); err != nil {
		logger.Error().Err(err).Msg("unable to write genesis challenge")
		return 1
	}
	if err := w.Flush(); err != nil {
		logger.Error().Err(err).Msg("unable to flush challenge file")
		return 1
	}

	fmt.Fprintf(stdout, "wrote a fresh accumulator to %q\n", *path)
	return 0
}

func runContribute(args []string, stdout, stderr io.Writer, logger zerolog.Logger) int {
	fs := flag.NewFlagSet("contribute", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Uint("n", 10, "log2 of the number of supported multiplication gates")
	challengePath := fs.String("challenge", "challenge", "path to the challenge file to read")
	responsePath := fs.String("response", "response", "path to the response file to write")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	params, err := ceremony.NewParameters(*n)
	if err != nil {
		logger.Error().Err(err).Msg("invalid parameters")
		return 1
	}

	info, err := os.Stat(*challengePath)
	if err != nil {
		logger.Error().Err(err).Str("path", *challengePath).Msg("unable to stat challenge file")
		return 1
	}
	want := int64(ceremony.NewSizes(params).AccumulatorOnDiskBytes())
	if info.Size() != want {
		logger.Error().Int64("want", want).Int64("got", info.Size()).Msg("challenge file size mismatch")
		return 1
	}

	challengeFile, err := os.Open(*challengePath)
	if err != nil {
		logger.Error().Err(err).Str("path", *challengePath).Msg("unable to open challenge file")
		return 1
	}
	defer challengeFile.Close()

	hashedReader := ceremony.NewHashReader(bufio.NewReader(challengeFile))

	_, acc, err := ceremony.ReadChallenge(hashedReader, params)
	if err != nil {
		logger.Error().Err(err).Msg("unable to read challenge")
		return 1
	}
	inputHash := hashedReader.Finalize()

	fmt.Fprintln(stdout, "type some random text and press [ENTER] to provide additional entropy...")
	userEntropy, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		logger.Error().Err(err).Msg("unable to read entropy from stdin")
		return 1
	}

	rng, err := ceremony.NewEntropyRNG([]byte(userEntropy))
	if err != nil {
		logger.Error().Err(err).Msg("unable to seed entropy source")
		return 1
	}

	pk, sk, err := ceremony.GenerateKeyPair(rng, inputHash)
	if err != nil {
		logger.Error().Err(err).Msg("unable to derive keypair")
		return 1
	}
	defer sk.Zeroize()

	logger.Info().Msg("computing, this could take a while...")
	if err := acc.Transform(sk); err != nil {
		logger.Error().Err(err).Msg("unable to transform accumulator")
		return 1
	}

	responseFile, err := os.OpenFile(*responsePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		logger.Error().Err(err).Str("path", *responsePath).Msg("unable to create response file")
		return 1
	}
	defer responseFile.Close()

	bufferedResponse := bufio.NewWriter(responseFile)
	hashedWriter := ceremony.NewHashWriter(bufferedResponse)
	if err := ceremony.WriteResponse(hashedWriter, inputHash, acc, pk); err != nil {
		logger.Error().Err(err).Msg("unable to write response")
		return 1
	}
	if err := bufferedResponse.Flush(); err != nil {
		logger.Error().Err(err).Msg("unable to flush response file")
		return 1
	}
	contributionHash := hashedWriter.Finalize()

	fmt.Fprintf(stdout, "\ndone!\n\nyour contribution has been written to %q\n\nthe BLAKE2b hash of %q is:\n", *responsePath, *responsePath)
	printDigest(stdout, contributionHash)
	return 0
}

func runVerify(args []string, stdout, stderr io.Writer, logger zerolog.Logger) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Uint("n", 10, "log2 of the number of supported multiplication gates")
	challengePath := fs.String("challenge", "challenge", "path to the challenge file")
	responsePath := fs.String("response", "response", "path to the response file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	params, err := ceremony.NewParameters(*n)
	if err != nil {
		logger.Error().Err(err).Msg("invalid parameters")
		return 1
	}

	challengeFile, err := os.Open(*challengePath)
	if err != nil {
		logger.Error().Err(err).Str("path", *challengePath).Msg("unable to open challenge file")
		return 1
	}
	defer challengeFile.Close()

	hashedReader := ceremony.NewHashReader(bufio.NewReader(challengeFile))
	_, before, err := ceremony.ReadChallenge(hashedReader, params)
	if err != nil {
		logger.Error().Err(err).Msg("unable to read challenge")
		return 1
	}
	challengeHash := hashedReader.Finalize()

	responseFile, err := os.Open(*responsePath)
	if err != nil {
		logger.Error().Err(err).Str("path", *responsePath).Msg("unable to open response file")
		return 1
	}
	defer responseFile.Close()

	inputHash, after, pk, err := ceremony.ReadResponse(bufio.NewReader(responseFile), params)
	if err != nil {
		logger.Error().Err(err).Msg("unable to read response")
		return 1
	}
	if inputHash != challengeHash {
		fmt.Fprintln(stdout, "response does not chain from the given challenge")
		return 1
	}

	ok, err := ceremony.VerifyTransform(before, after, pk, challengeHash)
	if err != nil {
		logger.Error().Err(err).Msg("unable to verify transform")
		return 1
	}
	if !ok {
		fmt.Fprintln(stdout, "verification FAILED")
		return 1
	}
	fmt.Fprintln(stdout, "verification OK")
	return 0
}

func printDigest(stdout io.Writer, digest [64]byte) {
	for row := 0; row < 4; row++ {
		fmt.Fprint(stdout, "\t")
		for group := 0; group < 4; group++ {
			start := row*16 + group*4
			fmt.Fprintf(stdout, "%02x%02x%02x%02x ", digest[start], digest[start+1], digest[start+2], digest[start+3])
		}
		fmt.Fprintln(stdout)
	}
}
