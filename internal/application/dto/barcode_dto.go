package dto

// BarcodeResponse número EAN-13 de un producto y la URL de su imagen.
type BarcodeResponse struct {
	ProductID string `json:"product_id"`
	Barcode   string `json:"barcode"`
	ImageURL  string `json:"image_url"`
}
