package cms

const seoProjection = `"seo": seo{title, description, "imageUrl": image.asset->url}`

const pageQuery = `*[_type == 'page' && slug.current == $slug][0]{
  "id": _id,
  title,
  "slug": slug.current,
  body,
  ` + seoProjection + `,
  "updatedAt": _updatedAt
}`

const homeQuery = `*[_type == 'home'][0]{
  modules,
  ` + seoProjection + `
}`

const settingsQuery = `*[_type == 'settings'][0]{
  "seo": seo{title, description, "imageUrl": image.asset->url},
  "navigation": menu.links[]{title, "url": coalesce(url, "/collections/" + reference->store.slug.current)},
  "footerLinks": footer.links[]{title, "url": coalesce(url, "/pages/" + reference->slug.current)},
  "footerText": footer.text
}`

const sitemapQuery = `{
  "collections": *[_type == 'collection']{
    _updatedAt,
    "imageUrl": coalesce(seo.image.asset->url, store.imageUrl),
    "url": $baseUrl + "/collections/" + store.slug.current
  },
  "home": *[_type == 'home'][0]{
    _updatedAt,
    "imageUrl": coalesce(seo.image.asset->url, store.imageUrl)
  },
  "pages": *[_type == 'page']{
    _updatedAt,
    "imageUrl": seo.image.asset->url,
    "url": $baseUrl + "/pages/" + slug.current
  },
  "products": *[_type == 'product' && store.status == 'active']{
    _updatedAt,
    "imageUrl": coalesce(seo.image.asset->url, store.previewImageUrl),
    "url": $baseUrl + "/products/" + store.slug.current
  }
}`
