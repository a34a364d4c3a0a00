package certificate

// certificateTemplate is the A4 certificate layout. The renderer injects the
// page-size CSS; this template only lays out the content block.
const certificateTemplate = `<div class="certificate">
  <style>
    .certificate {
      font-family: 'Georgia', 'Times New Roman', serif;
      color: #1a1a1a;
      padding: 48px 56px;
      border: 3px double #b8860b;
      height: 100%;
      box-sizing: border-box;
    }
    .certificate h1 {
      text-align: center;
      font-size: 28px;
      letter-spacing: 4px;
      text-transform: uppercase;
      margin-bottom: 4px;
    }
    .certificate .subtitle {
      text-align: center;
      font-size: 13px;
      letter-spacing: 2px;
      color: #666;
      margin-bottom: 36px;
    }
    .certificate .owner {
      text-align: center;
      font-size: 22px;
      font-style: italic;
      margin: 24px 0;
    }
    .certificate table {
      width: 100%;
      border-collapse: collapse;
      margin: 28px 0;
      font-size: 13px;
    }
    .certificate th {
      text-align: left;
      border-bottom: 1px solid #b8860b;
      padding: 6px 8px;
      text-transform: uppercase;
      letter-spacing: 1px;
      font-size: 11px;
      color: #666;
    }
    .certificate td {
      padding: 8px;
      border-bottom: 1px solid #eee;
    }
    .certificate .total {
      text-align: right;
      font-size: 15px;
      font-weight: bold;
      margin-top: 12px;
    }
    .certificate .footer {
      margin-top: 48px;
      display: flex;
      justify-content: space-between;
      font-size: 12px;
      color: #666;
    }
  </style>
  <h1>Certificate of Ownership</h1>
  <div class="subtitle">Maison &mdash; Authenticated Luxury Goods</div>
  <p>This certifies that the articles listed below are the authentic property of</p>
  <div class="owner">{{.OwnerName}}</div>
  <table>
    <thead>
      <tr><th>Article</th><th>Maison</th><th>Qty</th><th>Price</th></tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.Name}}</td>
        <td>{{.Brand}}</td>
        <td>{{.Quantity}}</td>
        <td>{{.Price}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <div class="total">Total {{.Total}}</div>
  <div class="footer">
    <div>Order {{.OrderID}}<br>Placed {{.OrderedAt}}</div>
    <div>Issued {{.IssuedAt}}</div>
  </div>
</div>`
