package receipt

import (
	"errors"
	"fmt"
)

// SupersedesReceiptCID returns the CID referenced by META: Supersedes-Receipt-CID.
func SupersedesReceiptCID(receiptBytes []byte) (string, bool, error) {
	v, ok, err := singleFieldFromSection(receiptBytes, "META", "Supersedes-Receipt-CID")
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return v, true, nil
}

// ValidateSupersession enforces minimal receipt supersession semantics.
//
// A receipt B supersedes receipt A when:
// - B's META includes Supersedes-Receipt-CID equal to CID(A)
// - B and A settle the same round number
// - B and A were computed by the same Engine-ID
// - B and A belong to the same wallet
//
// A corrected receipt replaces an earlier preview after a round re-fetch; it
// never rewrites the round itself (round records are immutable on-chain).
func ValidateSupersession(newReceipt, oldReceipt []byte) error {
	oldCID, err := CID(oldReceipt)
	if err != nil {
		return err
	}
	newCID, err := CID(newReceipt)
	if err != nil {
		return err
	}
	if newCID == oldCID {
		return errors.New("supersession invalid: new receipt bytes identical to old")
	}

	sup, ok, err := SupersedesReceiptCID(newReceipt)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("supersession invalid: new receipt does not declare Supersedes-Receipt-CID")
	}
	if sup != oldCID {
		return fmt.Errorf("supersession invalid: Supersedes-Receipt-CID=%q does not match old CID=%q", sup, oldCID)
	}

	oldRound, err := requiredFieldFromSection(oldReceipt, "ROUND", "Round")
	if err != nil {
		return err
	}
	newRound, err := requiredFieldFromSection(newReceipt, "ROUND", "Round")
	if err != nil {
		return err
	}
	if oldRound != newRound {
		return fmt.Errorf("supersession invalid: round mismatch old=%s new=%s", oldRound, newRound)
	}

	oldEngine, err := requiredFieldFromSection(oldReceipt, "META", "Engine-ID")
	if err != nil {
		return err
	}
	newEngine, err := requiredFieldFromSection(newReceipt, "META", "Engine-ID")
	if err != nil {
		return err
	}
	if oldEngine != newEngine {
		return fmt.Errorf("supersession invalid: engine mismatch old=%q new=%q", oldEngine, newEngine)
	}

	oldWallet, _, err := singleFieldFromSection(oldReceipt, "META", "Wallet")
	if err != nil {
		return err
	}
	newWallet, _, err := singleFieldFromSection(newReceipt, "META", "Wallet")
	if err != nil {
		return err
	}
	if oldWallet != newWallet {
		return fmt.Errorf("supersession invalid: wallet mismatch old=%q new=%q", oldWallet, newWallet)
	}

	return nil
}
