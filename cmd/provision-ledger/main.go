package main

import (
	"flag"
	"fmt"
	"os"

	sdk "github.com/hashgraph/hedera-sdk-go/v2"
)

// Provisions the platform's ledger resources: the HCS topic batch events
// are anchored to, and the NFT token class batch tokens are minted from.
// Run once per environment; copy the printed ids into the env file.
func main() {
	createTopic := flag.Bool("topic", false, "Create the batch events HCS topic")
	createToken := flag.Bool("token", false, "Create the batch NFT token class")
	flag.Parse()

	if !*createTopic && !*createToken {
		fmt.Println("Usage: provision-ledger -topic and/or -token")
		os.Exit(1)
	}

	operatorID, err := sdk.AccountIDFromString(os.Getenv("HEDERA_ACCOUNT_ID"))
	if err != nil {
		fmt.Println("HEDERA_ACCOUNT_ID invalid or not set:", err)
		os.Exit(1)
	}
	operatorKey, err := sdk.PrivateKeyFromStringECDSA(os.Getenv("HEDERA_PRIVATE_KEY"))
	if err != nil {
		fmt.Println("HEDERA_PRIVATE_KEY invalid or not set:", err)
		os.Exit(1)
	}

	var client *sdk.Client
	if os.Getenv("HEDERA_NETWORK") == "mainnet" {
		client = sdk.ClientForMainnet()
	} else {
		client = sdk.ClientForTestnet()
	}
	client.SetOperator(operatorID, operatorKey)
	defer client.Close()

	if *createTopic {
		fmt.Println("Creating HCS Topic...")

		resp, err := sdk.NewTopicCreateTransaction().
			SetAdminKey(operatorKey.PublicKey()).
			SetSubmitKey(operatorKey.PublicKey()).
			SetTopicMemo("AgriTrust Batch Events Topic").
			Execute(client)
		if err != nil {
			fmt.Println("Error creating topic:", err)
			os.Exit(1)
		}
		receipt, err := resp.GetReceipt(client)
		if err != nil {
			fmt.Println("Error fetching topic receipt:", err)
			os.Exit(1)
		}

		fmt.Printf("Successfully created Topic with ID: %s\n", receipt.TopicID.String())
		fmt.Println("\n=== ACTION REQUIRED ===")
		fmt.Printf("Set AGRITRUST_HCS_TOPIC_ID=%s\n\n", receipt.TopicID.String())
	}

	if *createToken {
		fmt.Println("Creating HTS NFT Token Class...")

		// The operator key doubles as admin and supply key; the supply key
		// is what authorizes mints (see internal/platform/ledger/hedera).
		tx, err := sdk.NewTokenCreateTransaction().
			SetTokenName("AgriTrust Batch Token").
			SetTokenSymbol("AGRIBATCH").
			SetTokenType(sdk.TokenTypeNonFungibleUnique).
			SetDecimals(0).
			SetInitialSupply(0).
			SetSupplyType(sdk.TokenSupplyTypeInfinite).
			SetTreasuryAccountID(operatorID).
			SetAdminKey(operatorKey.PublicKey()).
			SetSupplyKey(operatorKey.PublicKey()).
			SetFreezeKey(operatorKey.PublicKey()).
			SetWipeKey(operatorKey.PublicKey()).
			SetPauseKey(operatorKey.PublicKey()).
			SetTokenMemo("NFTs representing AgriTrust Batches").
			FreezeWith(client)
		if err != nil {
			fmt.Println("Error freezing token creation:", err)
			os.Exit(1)
		}

		resp, err := tx.Sign(operatorKey).Execute(client)
		if err != nil {
			fmt.Println("Error creating NFT token:", err)
			os.Exit(1)
		}
		receipt, err := resp.GetReceipt(client)
		if err != nil {
			fmt.Println("Error fetching token receipt:", err)
			os.Exit(1)
		}

		fmt.Printf("Successfully created NFT Token Class with ID: %s\n", receipt.TokenID.String())
		fmt.Println("\n=== ACTION REQUIRED ===")
		fmt.Printf("Set AGRITRUST_NFT_TOKEN_ID=%s\n\n", receipt.TokenID.String())
	}
}
