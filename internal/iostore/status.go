package iostore

import (
	"fmt"

	"github.com/annolab/pivot/internal/contract"
)

// PrintStoreStatus prints result store status information.
func PrintStoreStatus(status contract.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Location: %s\n", status.Location)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Results: %d\n", status.Results)
	fmt.Printf("Schemas: %d\n", status.Schemas)
	fmt.Printf("Assets: %d\n", status.Assets)
	fmt.Printf("Sources: %d\n", status.Sources)
	if status.Results > 0 && !status.Newest.IsZero() {
		fmt.Printf("Newest Result: %s\n", status.Newest.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Result: %s\n", status.Oldest.Format("2006-01-02 15:04:05"))
	}
}
