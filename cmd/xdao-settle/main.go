package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"xdao.co/settle/keys"
	"xdao.co/settle/model"
	"xdao.co/settle/receipt"
	"xdao.co/settle/settlement"
	"xdao.co/settle/storage"
	"xdao.co/settle/storage/archiveconfig"
	"xdao.co/settle/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "minbond":
		return cmdMinBond(args[1:], out, errOut)
	case "rewards":
		return cmdRewards(args[1:], out, errOut)
	case "claimable":
		return cmdClaimable(args[1:], out, errOut)
	case "receipt":
		return cmdReceipt(args[1:], out, errOut)
	case "archive":
		return cmdArchive(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "xdao-settle: settlement engine CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-settle minbond --reputation <0..100000000> --base-bond <amount>")
	fmt.Fprintln(w, "  xdao-settle rewards --request <file>")
	fmt.Fprintln(w, "  xdao-settle claimable --request <file>")
	fmt.Fprintln(w, "  xdao-settle receipt render --request <file> [--engine-id <id>] [--wallet <w>] [--computed-at <RFC3339>] [--supersedes <CID>] [--seed-hex <64hex> | --key-file <path>]")
	fmt.Fprintln(w, "  xdao-settle receipt cid <file>")
	fmt.Fprintln(w, "  xdao-settle receipt verify <file>")
	fmt.Fprintln(w, "  xdao-settle receipt validate-supersession --new <file> --old <file>")
	fmt.Fprintln(w, "  xdao-settle archive put (--dir <dir> | --config <file>) <file>")
	fmt.Fprintln(w, "  xdao-settle archive get (--dir <dir> | --config <file>) <CID>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --request takes a UserRewardsRequest JSON document ('-' reads stdin)")
	fmt.Fprintln(w, "  - --reputation is a 6-decimal fixed-point percentage (100000000 = 100%)")
	fmt.Fprintln(w, "  - --seed-hex must be 32 bytes (64 hex chars) ed25519 seed")
	fmt.Fprintln(w, "  - receipt render writes canonical receipt bytes to stdout")
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func readRequest(path string, v interface{}) error {
	b, err := readInput(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cmdMinBond(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("minbond", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var reputation uint64
	var baseBond uint64
	fs.Uint64Var(&reputation, "reputation", 0, "Reputation as 6-decimal fixed-point percentage")
	fs.Uint64Var(&baseBond, "base-bond", 0, "Base bond amount")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if baseBond == 0 {
		fmt.Fprintln(errOut, "missing --base-bond")
		return 2
	}

	bond, err := settlement.MinBond(settlement.DefaultParams(), reputation, baseBond)
	if err != nil {
		fmt.Fprintf(errOut, "minbond: %v\n", err)
		return 1
	}
	if err := printJSON(out, model.MinBondResponse{MinBond: model.Amount(bond)}); err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	return 0
}

func cmdRewards(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("rewards", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var reqPath string
	fs.StringVar(&reqPath, "request", "", "UserRewardsRequest JSON file ('-' for stdin)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if reqPath == "" {
		fmt.Fprintln(errOut, "missing --request")
		return 2
	}

	var req model.UserRewardsRequest
	if err := readRequest(reqPath, &req); err != nil {
		fmt.Fprintf(errOut, "read request: %v\n", err)
		return 1
	}
	resp, err := model.ComputeUserRewards(req)
	if err != nil {
		fmt.Fprintf(errOut, "rewards: %v\n", err)
		return 1
	}
	if err := printJSON(out, resp); err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	return 0
}

// claimableReply reports, per held role, whether the reward can still be
// claimed for the request's round.
type claimableReply struct {
	Round      uint64 `json:"round"`
	Juror      *bool  `json:"juror,omitempty"`
	Challenger *bool  `json:"challenger,omitempty"`
	Defender   *bool  `json:"defender,omitempty"`
}

func cmdClaimable(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("claimable", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var reqPath string
	fs.StringVar(&reqPath, "request", "", "UserRewardsRequest JSON file ('-' for stdin)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if reqPath == "" {
		fmt.Fprintln(errOut, "missing --request")
		return 2
	}

	var req model.UserRewardsRequest
	if err := readRequest(reqPath, &req); err != nil {
		fmt.Fprintf(errOut, "read request: %v\n", err)
		return 1
	}
	outcome, err := settlement.ParseOutcome(req.Round.Outcome)
	if err != nil {
		fmt.Fprintf(errOut, "claimable: %v\n", err)
		return 1
	}

	reply := claimableReply{Round: req.Round.Round}
	if req.Juror != nil {
		v := settlement.JurorRewardClaimable(settlement.JurorRecord{
			VotingPower:   uint64(req.Juror.VotingPower),
			RewardClaimed: req.Juror.RewardClaimed,
		})
		reply.Juror = &v
	}
	if req.Challenger != nil {
		v := settlement.ChallengerRewardClaimable(settlement.ChallengerRecord{
			Stake:         uint64(req.Challenger.Stake),
			RewardClaimed: req.Challenger.RewardClaimed,
		}, outcome)
		reply.Challenger = &v
	}
	if req.Defender != nil {
		v := settlement.DefenderRewardClaimable(settlement.DefenderRecord{
			Bond:          uint64(req.Defender.Bond),
			RewardClaimed: req.Defender.RewardClaimed,
		})
		reply.Defender = &v
	}
	if err := printJSON(out, reply); err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	return 0
}

func cmdReceipt(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xdao-settle receipt <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: render, cid, verify, validate-supersession")
		return 2
	}
	switch args[0] {
	case "render":
		return cmdReceiptRender(args[1:], out, errOut)
	case "cid":
		fs := flag.NewFlagSet("receipt cid", flag.ContinueOnError)
		fs.SetOutput(errOut)
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: xdao-settle receipt cid <file>")
			return 2
		}
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read receipt: %v\n", err)
			return 1
		}
		id, err := receipt.CID(b)
		if err != nil {
			fmt.Fprintf(errOut, "invalid receipt: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, id)
		return 0
	case "verify":
		fs := flag.NewFlagSet("receipt verify", flag.ContinueOnError)
		fs.SetOutput(errOut)
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: xdao-settle receipt verify <file>")
			return 2
		}
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read receipt: %v\n", err)
			return 1
		}
		signed, err := receipt.VerifySignature(b)
		if err != nil {
			fmt.Fprintf(errOut, "invalid: %v\n", err)
			return 1
		}
		if !signed {
			_, _ = fmt.Fprintln(out, "OK (unsigned)")
			return 0
		}
		_, _ = fmt.Fprintln(out, "OK")
		return 0
	case "validate-supersession":
		fs := flag.NewFlagSet("receipt validate-supersession", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var newPath string
		var oldPath string
		fs.StringVar(&newPath, "new", "", "New receipt file")
		fs.StringVar(&oldPath, "old", "", "Old receipt file")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if newPath == "" || oldPath == "" {
			fmt.Fprintln(errOut, "usage: xdao-settle receipt validate-supersession --new <file> --old <file>")
			return 2
		}
		newBytes, err := os.ReadFile(newPath)
		if err != nil {
			fmt.Fprintf(errOut, "read --new: %v\n", err)
			return 1
		}
		oldBytes, err := os.ReadFile(oldPath)
		if err != nil {
			fmt.Fprintf(errOut, "read --old: %v\n", err)
			return 1
		}
		if err := receipt.ValidateSupersession(newBytes, oldBytes); err != nil {
			fmt.Fprintf(errOut, "invalid: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, "OK")
		return 0
	default:
		fmt.Fprintf(errOut, "unknown receipt subcommand: %s\n", args[0])
		return 2
	}
}

func cmdReceiptRender(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("receipt render", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var reqPath string
	var engineID string
	var wallet string
	var computedAt string
	var supersedes string
	var seedHex string
	var keyFile string
	var printIssuerKey bool
	fs.StringVar(&reqPath, "request", "", "UserRewardsRequest JSON file ('-' for stdin)")
	fs.StringVar(&engineID, "engine-id", "", "Engine-ID stamped into the receipt")
	fs.StringVar(&wallet, "wallet", "", "Wallet (overrides the request's wallet)")
	fs.StringVar(&computedAt, "computed-at", "", "Computed-At as RFC3339 (default: now UTC)")
	fs.StringVar(&supersedes, "supersedes", "", "Supersedes-Receipt-CID")
	fs.StringVar(&seedHex, "seed-hex", "", "ed25519 seed as 64 hex chars; signs the receipt")
	fs.StringVar(&keyFile, "key-file", "", "Path to a file holding the seed as hex; signs the receipt")
	fs.BoolVar(&printIssuerKey, "print-issuer-key", true, "Print Issuer-Key to stderr when signing")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if reqPath == "" {
		fmt.Fprintln(errOut, "missing --request")
		return 2
	}

	var req model.UserRewardsRequest
	if err := readRequest(reqPath, &req); err != nil {
		fmt.Fprintf(errOut, "read request: %v\n", err)
		return 1
	}

	round, rewards, err := model.SettleRequest(req)
	if err != nil {
		fmt.Fprintf(errOut, "rewards: %v\n", err)
		return 1
	}

	at := time.Now().UTC()
	if computedAt != "" {
		at, err = time.Parse(time.RFC3339, computedAt)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --computed-at: %v\n", err)
			return 2
		}
	}
	if wallet == "" {
		wallet = req.Wallet
	}

	opts := receipt.RenderOptions{
		EngineID:             engineID,
		Wallet:               wallet,
		ComputedAt:           at,
		SupersedesReceiptCID: supersedes,
	}

	if seedHex != "" && keyFile != "" {
		fmt.Fprintln(errOut, "conflicting signer flags: --seed-hex cannot be combined with --key-file")
		return 2
	}
	if keyFile != "" {
		b, err := os.ReadFile(keyFile)
		if err != nil {
			fmt.Fprintf(errOut, "read --key-file: %v\n", err)
			return 1
		}
		seedHex = strings.TrimSpace(string(b))
	}

	var doc *receipt.Document
	if seedHex != "" {
		seed, err := hex.DecodeString(seedHex)
		if err != nil || len(seed) != ed25519.SeedSize {
			fmt.Fprintln(errOut, "invalid --seed-hex: want 32 bytes (64 hex chars)")
			return 2
		}
		priv := ed25519.NewKeyFromSeed(seed)
		opts.Ed25519Key = priv
		opts.IssuerKey = keys.Ed25519IssuerKey(priv.Public().(ed25519.PublicKey))
		if printIssuerKey {
			fmt.Fprintf(errOut, "Issuer-Key: %s\n", opts.IssuerKey)
		}
		doc, err = receipt.RenderSignedDocument(round, rewards, opts)
		if err != nil {
			fmt.Fprintf(errOut, "render: %v\n", err)
			return 1
		}
	} else {
		doc, err = receipt.RenderDocument(round, rewards, opts)
		if err != nil {
			fmt.Fprintf(errOut, "render: %v\n", err)
			return 1
		}
	}

	fmt.Fprintf(errOut, "Receipt-CID: %s\n", doc.CID)
	_, _ = out.Write(doc.Bytes)
	return 0
}

func openArchive(dir, config string) (storage.Archive, error) {
	switch {
	case dir != "" && config != "":
		return nil, fmt.Errorf("conflicting flags: --dir cannot be combined with --config")
	case config != "":
		cfg, err := archiveconfig.LoadFile(config)
		if err != nil {
			return nil, err
		}
		return cfg.Open("")
	case dir != "":
		return localfs.New(dir)
	default:
		return nil, fmt.Errorf("missing archive location: use --dir or --config")
	}
}

func cmdArchive(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xdao-settle archive <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: put, get")
		return 2
	}
	switch args[0] {
	case "put":
		fs := flag.NewFlagSet("archive put", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var dir, config string
		fs.StringVar(&dir, "dir", "", "Archive directory")
		fs.StringVar(&config, "config", "", "Archive config file (JSON)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: xdao-settle archive put (--dir <dir> | --config <file>) <file>")
			return 2
		}
		arc, err := openArchive(dir, config)
		if err != nil {
			fmt.Fprintf(errOut, "archive: %v\n", err)
			return 2
		}
		b, err := readInput(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read: %v\n", err)
			return 1
		}
		doc, err := (storage.ReceiptArchive{Backend: arc}).Put(b)
		if err != nil {
			fmt.Fprintf(errOut, "put: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, doc.CID)
		return 0
	case "get":
		fs := flag.NewFlagSet("archive get", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var dir, config string
		fs.StringVar(&dir, "dir", "", "Archive directory")
		fs.StringVar(&config, "config", "", "Archive config file (JSON)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(errOut, "usage: xdao-settle archive get (--dir <dir> | --config <file>) <CID>")
			return 2
		}
		arc, err := openArchive(dir, config)
		if err != nil {
			fmt.Fprintf(errOut, "archive: %v\n", err)
			return 2
		}
		id, err := cid.Decode(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "invalid CID: %v\n", err)
			return 2
		}
		doc, err := (storage.ReceiptArchive{Backend: arc}).Get(id)
		if err != nil {
			fmt.Fprintf(errOut, "get: %v\n", err)
			return 1
		}
		_, _ = out.Write(doc.Bytes)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown archive subcommand: %s\n", args[0])
		return 2
	}
}
